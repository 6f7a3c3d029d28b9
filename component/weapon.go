package component

// WeaponComponent gates firing to one bullet per trigger press
type WeaponComponent struct {
	Ready bool // Set on trigger release, cleared on fire
}
