package engine

import (
	"github.com/clinuxrulz/flying-shooter/component"
)

// NewGameRegistry registers every game store and resource
// Order here is the checksum walk order and must match on all peers
func NewGameRegistry() *Registry {
	r := NewRegistry()
	must(RegisterCopy(r, "player", hashPlayer))
	must(RegisterCopy(r, "transform", hashTransform))
	must(RegisterCopy(r, "velocity", hashVelocity))
	must(RegisterCopy(r, "acceleration", hashAcceleration))
	must(RegisterCopy(r, "weapon", hashWeapon))
	must(RegisterCopy(r, "bullet", hashBullet))

	must(RegisterResourceCopy(r, "frame", hashFrame))
	must(RegisterResourceCopy(r, "round", hashRound))
	must(RegisterResourceClone(r, "score", hashScore))
	must(RegisterResourceCopy(r, "match", hashMatch))
	// Inputs are overwritten at the top of every frame
	must(RegisterResourceClone[InputResource](r, "input", nil))
	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func hashPlayer(d *Digest, v component.PlayerComponent) error {
	d.WriteUint32(uint32(v.Handle))
	return nil
}

// Scale is cosmetic and skipped
func hashTransform(d *Digest, v component.TransformComponent) error {
	if err := d.WriteVec2("position", v.Position); err != nil {
		return err
	}
	return d.WriteFloat32("facing", v.Facing)
}

func hashVelocity(d *Digest, v component.VelocityComponent) error {
	return d.WriteVec2("velocity", v.Velocity)
}

func hashAcceleration(d *Digest, v component.AccelerationComponent) error {
	return d.WriteVec2("acceleration", v.Acceleration)
}

func hashWeapon(d *Digest, v component.WeaponComponent) error {
	d.WriteBool(v.Ready)
	return nil
}

func hashBullet(d *Digest, v component.BulletComponent) error {
	d.WriteUint32(uint32(v.Owner))
	d.WriteUint32(uint32(v.BornFrame))
	return d.WriteVec2("direction", v.Direction)
}

func hashFrame(d *Digest, v FrameResource) error {
	d.WriteUint32(uint32(v.Current))
	return nil
}

func hashRound(d *Digest, v RoundResource) error {
	d.WriteUint32(uint32(v.Phase))
	d.WriteUint32(uint32(v.Pending))
	d.WriteBool(v.HasPending)
	d.WriteUint32(uint32(v.TimerFrames))
	d.WriteUint32(v.Round)
	return nil
}

func hashScore(d *Digest, v ScoreResource) error {
	d.WriteUint32(uint32(len(v.Scores)))
	for _, s := range v.Scores {
		d.WriteUint32(s)
	}
	return nil
}

func hashMatch(d *Digest, v MatchResource) error {
	d.WriteUint32(uint32(v.NumPlayers))
	return nil
}
