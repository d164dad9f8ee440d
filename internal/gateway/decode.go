package gateway

import (
	"encoding/json"
	"fmt"

	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/store"
	"blockrooms-client/pkg/api"
	"blockrooms-client/pkg/logger"
)

// ApplyGameData раскладывает снимок бэкенда по стору. Каждое поле
// разбирается независимо: битое поле логируется и пропускается,
// остальные применяются.
func ApplyGameData(st *store.Store, data *api.GameData) error {
	if data == nil {
		return fmt.Errorf("empty game data")
	}

	if len(data.Player) > 0 {
		var p domain.Player
		if err := json.Unmarshal(data.Player, &p); err != nil {
			logger.Log.WithError(err).Warn("skip malformed player")
		} else {
			st.SetPlayer(&p)
		}
	}

	if len(data.Session) > 0 {
		var gs domain.GameSession
		if err := json.Unmarshal(data.Session, &gs); err != nil {
			logger.Log.WithError(err).Warn("skip malformed session")
		} else {
			st.SetSession(&gs)
		}
	}

	if len(data.CurrentRoom) > 0 {
		var r domain.RoomInfo
		if err := json.Unmarshal(data.CurrentRoom, &r); err != nil {
			logger.Log.WithError(err).Warn("skip malformed current room")
		} else {
			st.SetCurrentRoom(&r)
		}
	}

	if len(data.Entities) > 0 {
		var list []domain.Entity
		if err := json.Unmarshal(data.Entities, &list); err != nil {
			logger.Log.WithError(err).Warn("skip malformed entities")
		} else {
			st.SetEntities(list)
		}
	}

	if len(data.ShardLocations) > 0 {
		var list []domain.ShardLocation
		if err := json.Unmarshal(data.ShardLocations, &list); err != nil {
			logger.Log.WithError(err).Warn("skip malformed shard locations")
		} else {
			st.SetShardLocations(list)
		}
	}

	return nil
}
