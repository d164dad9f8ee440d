package domain

import "math"

// Position — непрерывная позиция игрока в мировых координатах.
// Высота (Y) ядру не нужна, но хранится для полноты потока от контроллера.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GridX возвращает X, округлённый до ближайшего целого.
// Округление гасит дрожание float-координат от камеры.
func (p Position) GridX() int { return int(math.Round(p.X)) }

// GridZ возвращает Z, округлённый до ближайшего целого.
func (p Position) GridZ() int { return int(math.Round(p.Z)) }

// DistanceTo — евклидово расстояние до другой точки в плоскости XZ.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(p.X-other.X, p.Z-other.Z)
}

// Rect — прямоугольная зона в целочисленных координатах (включительно).
type Rect struct {
	MinX int `yaml:"minX" json:"minX"`
	MaxX int `yaml:"maxX" json:"maxX"`
	MinZ int `yaml:"minZ" json:"minZ"`
	MaxZ int `yaml:"maxZ" json:"maxZ"`
}

// Contains проверяет попадание округлённой позиции в зону.
func (r Rect) Contains(x, z int) bool {
	return x >= r.MinX && x <= r.MaxX && z >= r.MinZ && z <= r.MaxZ
}

// Overlaps сообщает, пересекаются ли две зоны.
// Используется тестами таблицы дверей: зоны обязаны быть дизъюнктными.
func (r Rect) Overlaps(other Rect) bool {
	return r.MinX <= other.MaxX && other.MinX <= r.MaxX &&
		r.MinZ <= other.MaxZ && other.MinZ <= r.MaxZ
}
