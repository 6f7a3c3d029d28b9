package component

import (
	"github.com/clinuxrulz/flying-shooter/core"
)

// PlayerComponent binds a ship entity to the peer controlling it
type PlayerComponent struct {
	Handle core.PlayerHandle
}
