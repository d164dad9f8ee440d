package actions

import (
	"blockrooms-client/internal/domain"
	"blockrooms-client/internal/engine/handlers"
	"blockrooms-client/pkg/logger"
)

// HandlePickup обрабатывает подбор предмета. Подбор - чисто клиентская
// механика: бэкенд не вызывается, а взятая точка не восстанавливается
// до конца игры.
func HandlePickup(ctx handlers.Context) (handlers.Result, error) {
	if !ctx.Gates.CanPickup {
		logger.Log.Debug("pickup ignored: nothing in range")
		return handlers.EmptyResult(), nil
	}

	id := ctx.Gates.PickupID

	// Первая точка выдает оружие, остальные пополняют запас.
	if id == ctx.Table.FirstPickup.ID {
		if !ctx.Store.EquipGun() {
			return handlers.EmptyResult(), nil
		}
		ctx.Store.MutateStats(func(st *domain.GameStats) { st.PickupsTaken++ })
		ctx.Store.PushEvent("GUN_EQUIPPED", "", "")
		logger.Log.Info("gun equipped")
		return handlers.Result{Msg: "gun equipped"}, nil
	}

	if !ctx.Store.TakePickup(id) {
		return handlers.EmptyResult(), nil
	}
	ctx.Store.AddReserveAmmo(ctx.Cfg.AmmoPerPickup)
	ctx.Store.MutateStats(func(st *domain.GameStats) { st.PickupsTaken++ })
	ctx.Store.PushEvent("AMMO_PICKED", "", string(id))
	logger.Log.WithField("pickup", id).Info("ammo picked up")

	return handlers.Result{Msg: "ammo picked up"}, nil
}

// HandleWeaponPistol переключает активное оружие на пистолет.
func HandleWeaponPistol(ctx handlers.Context) (handlers.Result, error) {
	return switchWeapon(ctx, domain.WeaponPistol)
}

// HandleWeaponShotgun переключает активное оружие на дробовик.
func HandleWeaponShotgun(ctx handlers.Context) (handlers.Result, error) {
	return switchWeapon(ctx, domain.WeaponShotgun)
}

func switchWeapon(ctx handlers.Context, w domain.Weapon) (handlers.Result, error) {
	if !ctx.Store.SetWeapon(w) {
		logger.Log.WithField("weapon", w).Debug("weapon switch ignored")
		return handlers.EmptyResult(), nil
	}
	logger.Log.WithField("weapon", w).Info("weapon switched")
	return handlers.Result{Msg: "weapon switched"}, nil
}
