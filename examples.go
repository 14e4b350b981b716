package main

import (
	"fmt"
	"sort"
)

// Built-in models, selectable with -example.
var examples = map[string]string{
	"small-factory": smallFactoryModel,
	"transfer-line": transferLineModel,
	"observer":      observerModel,
	"opacity":       opacityModel,
	"diagnosis":     diagnosisModel,
}

// Two machines feeding each other through a one-slot buffer. M1 must not
// start while the buffer is full because it cannot be stopped from
// dropping its part into it.
const smallFactoryModel = `
operation : monolithic
plants : [ M1, M2 ]
specs : [ E ]

automata : [
  {
    name : M1
    initial : idle
    marked : [ idle ]
    uncontrollable : [ b1 ]
    transitions : [
      { from : idle, event : a1, to : busy },
      { from : busy, event : b1, to : idle }
    ]
  },
  {
    name : M2
    initial : idle
    marked : [ idle ]
    uncontrollable : [ b2 ]
    transitions : [
      { from : idle, event : a2, to : busy },
      { from : busy, event : b2, to : idle }
    ]
  },
  {
    name : E
    initial : empty
    marked : [ empty ]
    uncontrollable : [ b1 ]
    transitions : [
      { from : empty, event : b1, to : full },
      { from : full, event : a2, to : empty }
    ]
  }
]
`

// Three machines and two buffers, solved one buffer at a time.
const transferLineModel = `
operation : reduced
plants : [ M1, M2, M3 ]
specs : [ E1, E2 ]

automata : [
  {
    name : M1
    initial : idle
    marked : [ idle ]
    uncontrollable : [ b1 ]
    transitions : [
      { from : idle, event : a1, to : busy },
      { from : busy, event : b1, to : idle }
    ]
  },
  {
    name : M2
    initial : idle
    marked : [ idle ]
    uncontrollable : [ b2 ]
    transitions : [
      { from : idle, event : a2, to : busy },
      { from : busy, event : b2, to : idle }
    ]
  },
  {
    name : M3
    initial : idle
    marked : [ idle ]
    uncontrollable : [ b3 ]
    transitions : [
      { from : idle, event : a3, to : busy },
      { from : busy, event : b3, to : idle }
    ]
  },
  {
    name : E1
    initial : empty
    marked : [ empty ]
    uncontrollable : [ b1 ]
    transitions : [
      { from : empty, event : b1, to : full },
      { from : full, event : a2, to : empty }
    ]
  },
  {
    name : E2
    initial : empty
    marked : [ empty ]
    uncontrollable : [ b2 ]
    transitions : [
      { from : empty, event : b2, to : full },
      { from : full, event : a3, to : empty }
    ]
  }
]
`

// A sensor that may silently switch to standby before reporting.
const observerModel = `
operation : observer
unobservable : [ sleep ]

automata : [
  {
    name : Sensor
    initial : on
    marked : [ on ]
    transitions : [
      { from : on, event : sleep, to : standby },
      { from : standby, event : sleep, to : standby },
      { from : standby, event : report, to : on }
    ]
  }
]
`

// Whether a visitor took the private corridor is secret; the corridor
// and the hall both end at the same door.
const opacityModel = `
operation : current-opacity
unobservable : [ slip ]
secret : [ corridor ]
steps : 1

automata : [
  {
    name : Building
    initial : entrance
    marked : [ exit ]
    transitions : [
      { from : entrance, event : walk, to : corridor },
      { from : entrance, event : slip, to : hall },
      { from : hall, event : walk, to : lobby },
      { from : corridor, event : door, to : exit },
      { from : lobby, event : door, to : exit }
    ]
  }
]
`

// A valve that may stick unobservably; a stuck valve never closes.
const diagnosisModel = `
operation : diagnosability
unobservable : [ stick ]
faults : [ stick ]

automata : [
  {
    name : Valve
    initial : closed
    marked : [ closed ]
    uncontrollable : [ stick ]
    transitions : [
      { from : closed, event : open, to : opened },
      { from : opened, event : close, to : closed },
      { from : opened, event : stick, to : stuck },
      { from : stuck, event : open, to : stuck }
    ]
  }
]
`

// ExampleNames lists the built-in models, sorted.
func ExampleNames() []string {
	names := make([]string, 0, len(examples))
	for n := range examples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadExample decodes a built-in model.
func LoadExample(name string) (*Config, error) {
	text, ok := examples[name]
	if !ok {
		return nil, fmt.Errorf("unknown example %q, want one of %v", name, ExampleNames())
	}
	return LoadConfig(text)
}
