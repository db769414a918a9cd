package lanes_test

import (
	"fmt"

	"github.com/matzehuels/swimlane/pkg/diagram"
	"github.com/matzehuels/swimlane/pkg/lanes"
)

func ExampleConfig_LaneTop() {
	cfg := lanes.Config{StartY: 0, Gap: 10, DefaultHeight: 120}
	ls := []*diagram.Lane{
		{ID: "a", Order: 0, H: 100},
		{ID: "b", Order: 1, H: 150},
	}

	fmt.Println(cfg.LaneTop(ls, "b"))
	fmt.Println(cfg.LaneTop(ls, "missing"))

	id, ok := cfg.DetectLane(ls, 10, 120)
	fmt.Println(id, ok)
	// Output:
	// 110
	// 0
	// b true
}
