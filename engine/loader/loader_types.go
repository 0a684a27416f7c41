package loader

import (
	"github.com/Carmen-Shannon/oxy-skel/engine/model"
)

// importedRig is the format-neutral result of a backend import: bones in traversal order and
// uniformly sampled clips whose frames are indexed by those bones.
type importedRig struct {
	Name  string
	Bones []model.BoneRecord
	Clips []model.ClipRecord
}

// rigFile is the YAML rig document.
//
//	name: hero
//	bones:
//	  - {name: root, parent: -1, offset: [16 row-major floats]}
//	clips:
//	  - name: walk
//	    ticks_per_second: 30
//	    frames:
//	      - positions: [[x, y, z], ...]
//	        rotations: [[w, x, y, z], ...]
//	        scales: [[x, y, z], ...]
//
// An omitted offset is the identity. Omitted rotations or scales default to identity and one for every bone.
type rigFile struct {
	Name  string        `yaml:"name"`
	Bones []rigFileBone `yaml:"bones"`
	Clips []rigFileClip `yaml:"clips"`
}

type rigFileBone struct {
	Name   string    `yaml:"name"`
	Parent int       `yaml:"parent"`
	Offset []float32 `yaml:"offset,omitempty"`
}

type rigFileClip struct {
	Name           string         `yaml:"name"`
	TicksPerSecond float32        `yaml:"ticks_per_second"`
	Frames         []rigFileFrame `yaml:"frames"`
}

type rigFileFrame struct {
	Positions [][3]float32 `yaml:"positions"`
	Rotations [][4]float32 `yaml:"rotations,omitempty"`
	Scales    [][3]float32 `yaml:"scales,omitempty"`
}
