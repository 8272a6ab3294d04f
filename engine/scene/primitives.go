package scene

import (
	"github.com/Carmen-Shannon/oxy-primitives/common"
	"github.com/Carmen-Shannon/oxy-primitives/engine/game_object"
	"github.com/Carmen-Shannon/oxy-primitives/engine/model"
)

// Yellow is the triangle's color.
var Yellow = common.Color{0.8, 0.8, 0, 1}

// DefaultObjects returns the two primitives in draw order: a yellow triangle above the origin
// turned 15 degrees about Y, and a red unit box below and to the left turned -15 degrees.
//
// Returns:
//   - []game_object.GameObject: the triangle then the box
func DefaultObjects() []game_object.GameObject {
	return []game_object.GameObject{
		game_object.NewGameObject(
			game_object.WithModel(model.NewTriangle()),
			game_object.WithPosition(0, 0.5, 0),
			game_object.WithRotationY(15),
			game_object.WithColor(Yellow),
		),
		game_object.NewGameObject(
			game_object.WithModel(model.NewBox()),
			game_object.WithPosition(-0.5, -0.75, 0),
			game_object.WithRotationY(-15),
			game_object.WithColor(common.Red),
		),
	}
}
