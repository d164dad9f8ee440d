package journal

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/store"
)

const (
	MagicHeader string = `BRNL` // 4 байта
	Version1    uint32 = 1
)

// FileHeader — это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type FileHeader struct {
	Magic     [4]byte // 4 байта
	Version   uint32  // 4 байта
	StartedAt int64   // 8 байт, unix nano
}

// recordHeader — заголовок каждой записи события.
type recordHeader struct {
	At        int64  // 8, unix nano
	KindLen   uint8  // 1
	RoomLen   uint8  // 1
	DetailLen uint16 // 2
}

// Writer пишет журнал событий сессии в бинарный файл, по записи на
// событие. Журнал append-only: переигрывание сессии на бэкенде судит
// блокчейн, а журнал отвечает на вопрос "что видел клиент и когда".
type Writer struct {
	f       *os.File
	written int
}

// Create создает файл журнала и пишет заголовок.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	header := FileHeader{
		Version:   Version1,
		StartedAt: time.Now().UnixNano(),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(f, binary.LittleEndian, &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write journal header: %w", err)
	}
	return &Writer{f: f}, nil
}

// Append дописывает одно событие.
func (w *Writer) Append(ev store.Event) error {
	kind, room, detail := []byte(ev.Kind), []byte(ev.RoomID), []byte(ev.Detail)
	if len(kind) > 255 || len(room) > 255 || len(detail) > 65535 {
		return fmt.Errorf("journal record too large: kind %d room %d detail %d", len(kind), len(room), len(detail))
	}

	rec := recordHeader{
		At:        ev.At.UnixNano(),
		KindLen:   uint8(len(kind)),
		RoomLen:   uint8(len(room)),
		DetailLen: uint16(len(detail)),
	}
	if err := binary.Write(w.f, binary.LittleEndian, &rec); err != nil {
		return fmt.Errorf("write record header: %w", err)
	}
	for _, b := range [][]byte{kind, room, detail} {
		if len(b) == 0 {
			continue
		}
		if _, err := w.f.Write(b); err != nil {
			return fmt.Errorf("write record body: %w", err)
		}
	}
	w.written++
	return nil
}

// Written возвращает число записанных событий.
func (w *Writer) Written() int { return w.written }

func (w *Writer) Close() error {
	return w.f.Close()
}

// Load читает журнал целиком.
func Load(path string) ([]store.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return readBinary(f)
}

func readBinary(r io.Reader) ([]store.Event, error) {
	// 1. Читаем заголовок целиком
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("not a journal file: magic %q", header.Magic)
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported journal version %d", header.Version)
	}

	var events []store.Event
	for {
		var rec recordHeader
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return nil, fmt.Errorf("failed to read record header: %w", err)
		}

		buf := make([]byte, int(rec.KindLen)+int(rec.RoomLen)+int(rec.DetailLen))
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("failed to read record body: %w", err)
		}

		kindEnd := int(rec.KindLen)
		roomEnd := kindEnd + int(rec.RoomLen)
		events = append(events, store.Event{
			At:     time.Unix(0, rec.At),
			Kind:   string(buf[:kindEnd]),
			RoomID: domain.RoomID(buf[kindEnd:roomEnd]),
			Detail: string(buf[roomEnd:]),
		})
	}
}
