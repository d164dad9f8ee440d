package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/world"
)

func main() {
	zonesPath := flag.String("zones", "", "путь к YAML-таблице зон (пусто = встроенная)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printHelp()
		return
	}

	tab, err := world.LoadOrDefault(*zonesPath)
	if err != nil {
		fmt.Printf("Invalid table: %v\n", err)
		os.Exit(1)
	}

	switch args[0] {
	case "validate":
		fmt.Printf("OK: %d doors, %d pickups, range %.1f\n",
			len(tab.Doors), len(tab.Pickups), tab.PickupRange)
	case "list":
		for _, d := range tab.Doors {
			fmt.Printf("door %-3s room %s  x[%d..%d] z[%d..%d]\n",
				d.ID, d.Room, d.Zone.MinX, d.Zone.MaxX, d.Zone.MinZ, d.Zone.MaxZ)
		}
		for _, p := range tab.Pickups {
			fmt.Printf("pickup %-3s (%.0f, %.0f)\n", p.ID, p.X, p.Z)
		}
		fmt.Printf("first  %-3s (%.0f, %.0f)\n", tab.FirstPickup.ID, tab.FirstPickup.X, tab.FirstPickup.Z)
	case "at":
		if len(args) < 3 {
			fmt.Println("Usage: zonecheck at <x> <z>")
			return
		}
		x, err1 := strconv.ParseFloat(args[1], 64)
		z, err2 := strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil {
			fmt.Println("Invalid coordinates")
			return
		}
		pos := domain.Position{X: x, Z: z}
		zs := tab.ZoneAt(pos)
		fmt.Printf("grid (%d, %d)\n", pos.GridX(), pos.GridZ())
		if d, ok := tab.ActiveDoor(zs); ok {
			fmt.Printf("door %s (room %s)\n", d.ID, d.Room)
		} else {
			fmt.Println("door -")
		}
		if p, ok := tab.ActivePickup(zs, nil); ok {
			fmt.Printf("pickup %s\n", p.ID)
		} else if zs.InFirstPickup {
			fmt.Printf("pickup %s\n", tab.FirstPickup.ID)
		} else {
			fmt.Println("pickup -")
		}
		fmt.Printf("resolved room %s\n", tab.ResolveRoomID(nil, nil, zs))
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Zone Check - проверка таблицы зон игрового поля
Commands:
  validate         - проверить инварианты таблицы
  list             - вывести все двери и точки подбора
  at <x> <z>       - классифицировать позицию (дверь, подбор, комната)
Flags:
  -zones <path>    - своя YAML-таблица вместо встроенной`)
}
