package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"blockrooms-client/internal/agent"
	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine"
	"blockrooms-client/internal/gateway"
	"blockrooms-client/internal/journal"
	"blockrooms-client/internal/server"
	"blockrooms-client/internal/storage"
	"blockrooms-client/internal/store"
	"blockrooms-client/internal/version"
	"blockrooms-client/internal/world"
	"blockrooms-client/pkg/logger"
	"blockrooms-client/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	// .env удобен при локальной разработке, в проде его просто нет
	_ = godotenv.Load()
	logger.Init()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// 1. Парсинг конфигурации
	var zonesPath, dbPath, journalPath string
	var auto bool
	flag.StringVar(&zonesPath, "zones", "", "Path to a YAML zone table (empty for built-in)")
	flag.StringVar(&dbPath, "db", "blockrooms.db", "Path to the client storage file")
	flag.StringVar(&journalPath, "journal", "", "Path to a binary event journal (empty to disable)")
	flag.BoolVar(&auto, "auto", false, "Run the autopilot agent instead of stdin intents")
	flag.Parse()

	apiURL := envOr("BR_API_URL", "http://localhost:3001")
	feedURL := envOr("BR_FEED_URL", "ws://localhost:3001/feed")
	token := os.Getenv("BR_TOKEN")
	debugPort := envOr("BR_DEBUG_PORT", "8091")

	logger.Log.Info("Starting Blockrooms client...")
	logger.Log.Info(version.String())

	// 2. Таблица зон
	table, err := world.LoadOrDefault(zonesPath)
	if err != nil {
		logger.Log.Fatal("Zone table error: ", err)
	}

	// 3. Клиентское хранилище и восстановление сессии
	disk, err := storage.Open(dbPath)
	if err != nil {
		logger.Log.Fatal("Storage error: ", err)
	}
	defer func() {
		if err := disk.Close(); err != nil {
			logger.Log.WithError(err).Warn("storage close failed")
		}
	}()

	installID, err := disk.GetKV("install_id")
	if err != nil {
		logger.Log.Fatal("Storage read error: ", err)
	}
	if installID == "" {
		installID = utils.GenerateID()
		if err := disk.PutKV("install_id", installID); err != nil {
			logger.Log.WithError(err).Warn("install id not persisted")
		}
	}
	logger.Log.WithField("install_id", installID).Info("client identity")

	st := store.New()
	if persisted, ok, err := disk.LoadSnapshot(); err != nil {
		logger.Log.WithError(err).Warn("snapshot load failed, starting fresh")
	} else if ok {
		st.RestorePersisted(persisted)
		logger.Log.Info("session restored from storage")
	}

	// 4. Шлюз к бэкенду и цикл сессии
	backend := gateway.NewHTTPClient(apiURL, token, 15*time.Second)
	session := engine.NewSession(engine.NewConfig(), st, table, backend, disk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go session.Run(ctx)

	feed := gateway.NewFeed(feedURL, st)
	go func() {
		if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Error("feed stopped")
		}
	}()

	// Подсказки аудио-слою в headless-режиме просто логируются
	go func() {
		for cue := range session.Cues {
			if cue.Track == "" {
				logger.Log.Info("music: stop")
				continue
			}
			logger.Log.WithField("track", cue.Track).Info("music: play")
		}
	}()

	// 5. Debug-листенер
	srv := server.New(st, table, debugPort)
	srv.RunDetached()

	// 6. Периодическое сохранение снимка
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := disk.SaveSnapshot(st.ExportPersisted()); err != nil {
					logger.Log.WithError(err).Warn("snapshot save failed")
				}
			}
		}
	}()

	// 7. Журнал событий сессии
	if journalPath != "" {
		jw, err := journal.Create(journalPath)
		if err != nil {
			logger.Log.Fatal("Journal error: ", err)
		}
		defer func() {
			if err := jw.Close(); err != nil {
				logger.Log.WithError(err).Warn("journal close failed")
			}
		}()
		go journal.NewRecorder(jw, st).Run(ctx)
	}

	session.Start()

	// 8. Интенты: автопилот либо stdin (headless-драйвер)
	if auto {
		go agent.New(session, st, table).Run(ctx)
	} else {
		go readIntents(session, st)
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down...")
	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Log.WithError(err).Warn("debug listener shutdown failed")
	}
	if err := disk.SaveSnapshot(st.ExportPersisted()); err != nil {
		logger.Log.WithError(err).Warn("final snapshot save failed")
	}
	logger.Log.Info("Done.")
}

// readIntents конвертирует строки stdin в интенты сессии.
// Однобуквенная строка - клавиша; служебные команды:
//
//	pos <x> <z>  - позиция игрока (для запуска без рендерера)
//	aim on|off   - прицеливание
//	ended        - текущий трек доигран
func readIntents(session *engine.Session, st *store.Store) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "pos":
			if len(fields) != 3 {
				logger.Log.Warn("usage: pos <x> <z>")
				continue
			}
			x, errX := strconv.ParseFloat(fields[1], 64)
			z, errZ := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errZ != nil {
				logger.Log.Warn("bad coordinates")
				continue
			}
			st.UpdatePosition(domain.Position{X: x, Z: z})

		case "aim":
			st.SetAiming(len(fields) > 1 && fields[1] == "on")

		case "ended":
			session.NotifyTrackEnded()

		default:
			session.ProcessKey(fields[0])
		}
	}
}
