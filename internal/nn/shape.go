package nn

import (
	"fmt"

	"github.com/TrellixVulnTeam/DL-PJIE/internal/tensor"
)

// expectNCHW checks that in is a 4D [N, C, H, W] shape with the given
// channel count (channels < 0 accepts any).
func expectNCHW(layer string, in tensor.Shape, channels int) error {
	if len(in) != 4 {
		return fmt.Errorf("%s: expected 4D input [N, C, H, W], got %v", layer, in)
	}
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%s: %w", layer, err)
	}
	if channels >= 0 && in[1] != channels {
		return fmt.Errorf("%s: input has %d channels, expected %d", layer, in[1], channels)
	}
	return nil
}

// mustShape panics with err when the shape check fails; used by Forward.
func mustShape(s tensor.Shape, err error) tensor.Shape {
	if err != nil {
		panic(err.Error())
	}
	return s
}
