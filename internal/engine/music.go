package engine

import (
	"math/rand"
	"time"

	"blockrooms-client/pkg/api"
	"blockrooms-client/pkg/logger"
)

// Треки фоновой музыки. muisc4 — не опечатка здесь, так называется ассет.
var shortTracks = []string{"music1.mp3", "music2.mp3", "music3.mp3", "muisc4.mp3"}

const longTrack = "long.mp3"

// Music — планировщик фоновой музыки. Сам ничего не проигрывает:
// шлет подсказки в Cues, а аудио-слой отчитывается trackEnded.
// Все методы вызываются только из цикла сессии.
type Music struct {
	s *Session

	rng        *rand.Rand
	last       string
	finished   int  // доигранных коротких треков
	longPlayed bool // длинный трек уже прозвучал
	playing    bool
	stopped    bool
}

func newMusic(s *Session) *Music {
	return &Music{
		s:   s,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// start взводит расписание: тишина, затем первый случайный трек.
func (m *Music) start() {
	m.stopped = false
	m.s.Schedule(m.s.cfg.MusicInitialDelay, m.playNext)
}

// playNext ставит случайный короткий трек, не повторяя предыдущий.
func (m *Music) playNext() {
	if m.stopped || m.playing {
		return
	}

	track := shortTracks[m.rng.Intn(len(shortTracks))]
	for len(shortTracks) > 1 && track == m.last {
		track = shortTracks[m.rng.Intn(len(shortTracks))]
	}
	m.last = track
	m.playing = true
	m.emit(track)
}

// trackEnded вызывается, когда аудио-слой доиграл трек.
func (m *Music) trackEnded() {
	if m.stopped {
		return
	}
	m.playing = false
	m.finished++

	// После нескольких коротких треков один раз звучит длинный.
	if !m.longPlayed && m.finished >= m.s.cfg.MusicLongAfter {
		m.longPlayed = true
		m.playing = true
		m.emit(longTrack)
		return
	}

	m.s.Schedule(m.s.cfg.MusicGap, m.playNext)
}

// stop глушит музыку до следующего start.
func (m *Music) stop() {
	if m.stopped {
		return
	}
	m.stopped = true
	m.playing = false
	m.emit("") // пустой трек — сигнал остановки
}

func (m *Music) emit(track string) {
	select {
	case m.s.Cues <- api.MusicCue{Track: track}:
	default:
		// Аудио-слоя может не быть, подсказка теряется без вреда.
	}
	logger.Log.WithField("track", track).Debug("music cue")
}
