package cps2

import (
	"fmt"
	"sync"
)

type boxData struct {
	table   []uint8
	inputs  []uint
	outputs []uint
}

// fn2GroupA and fn2GroupB are the block positions feeding the right and left
// halves of fn2.
var (
	fn2GroupA = []uint{6, 0, 2, 13, 1, 4, 14, 7}
	fn2GroupB = []uint{3, 5, 9, 10, 8, 15, 12, 11}
)

var fn2Boxes = [Rounds][BoxesPerGroup]boxData{
	{
		{
			table: []uint8{
				2, 0, 2, 0, 3, 0, 0, 3, 1, 1, 0, 1, 3, 2, 0, 1, 2, 0, 1, 2, 0, 2, 0, 2, 2, 2, 3, 0, 2, 1, 3, 0,
				0, 1, 0, 1, 2, 2, 3, 3, 0, 3, 0, 2, 3, 0, 1, 2, 1, 1, 0, 2, 0, 3, 1, 1, 2, 2, 1, 3, 1, 1, 3, 1,
			},
			inputs:  []uint{0, 3, 4, 5, 7},
			outputs: []uint{6, 7},
		},
		{
			table: []uint8{
				1, 1, 0, 3, 0, 2, 0, 1, 3, 0, 2, 0, 1, 1, 0, 0, 1, 3, 2, 2, 0, 2, 2, 2, 2, 0, 1, 3, 3, 3, 1, 1,
				1, 3, 1, 3, 2, 2, 2, 2, 2, 2, 0, 1, 0, 1, 1, 2, 3, 1, 1, 2, 0, 3, 3, 3, 2, 2, 3, 1, 1, 1, 3, 0,
			},
			inputs:  []uint{1, 2, 3, 4, 6},
			outputs: []uint{3, 5},
		},
		{
			table: []uint8{
				1, 0, 2, 2, 3, 3, 3, 3, 1, 2, 2, 1, 0, 1, 2, 1, 1, 2, 3, 1, 2, 0, 0, 1, 2, 3, 1, 2, 0, 0, 0, 2,
				2, 0, 1, 1, 0, 0, 2, 0, 0, 0, 2, 3, 2, 3, 0, 1, 3, 0, 0, 0, 2, 3, 2, 0, 1, 3, 2, 1, 3, 1, 1, 3,
			},
			inputs:  []uint{1, 2, 4, 5, 6, 7},
			outputs: []uint{1, 4},
		},
		{
			table: []uint8{
				1, 3, 3, 0, 3, 2, 3, 1, 3, 2, 1, 1, 3, 3, 2, 1, 2, 3, 0, 3, 1, 0, 0, 2, 3, 0, 0, 0, 3, 3, 0, 1,
				2, 3, 0, 0, 0, 1, 2, 1, 3, 0, 0, 1, 0, 2, 2, 2, 3, 3, 1, 2, 1, 3, 0, 0, 0, 3, 0, 1, 3, 2, 2, 0,
			},
			inputs:  []uint{0, 2, 3, 5, 6, 7},
			outputs: []uint{0, 2},
		},
	},
	{
		{
			table: []uint8{
				3, 1, 3, 0, 3, 0, 3, 1, 3, 0, 0, 1, 1, 3, 0, 3, 1, 1, 0, 1, 2, 3, 2, 3, 3, 1, 2, 2, 2, 0, 2, 3,
				2, 2, 2, 1, 1, 3, 3, 0, 3, 1, 2, 1, 1, 1, 0, 2, 0, 3, 3, 0, 0, 2, 0, 0, 1, 1, 2, 1, 2, 1, 1, 0,
			},
			inputs:  []uint{0, 2, 4, 6},
			outputs: []uint{4, 6},
		},
		{
			table: []uint8{
				0, 3, 0, 3, 3, 2, 1, 2, 3, 1, 1, 1, 2, 0, 2, 3, 0, 3, 1, 2, 2, 1, 3, 3, 3, 2, 1, 2, 2, 0, 1, 0,
				2, 3, 0, 1, 2, 0, 1, 1, 2, 0, 2, 1, 2, 0, 2, 3, 3, 1, 0, 2, 3, 3, 0, 3, 1, 1, 3, 0, 0, 1, 2, 0,
			},
			inputs:  []uint{1, 3, 4, 5, 6, 7},
			outputs: []uint{0, 3},
		},
		{
			table: []uint8{
				0, 0, 2, 1, 3, 2, 1, 0, 1, 2, 2, 2, 1, 1, 0, 3, 1, 2, 2, 3, 2, 1, 1, 0, 3, 0, 0, 1, 1, 2, 3, 1,
				3, 3, 2, 2, 1, 0, 1, 1, 1, 2, 0, 1, 2, 3, 0, 3, 3, 0, 3, 2, 2, 0, 2, 2, 1, 2, 3, 2, 1, 0, 2, 1,
			},
			inputs:  []uint{0, 1, 3, 4, 5, 7},
			outputs: []uint{1, 7},
		},
		{
			table: []uint8{
				0, 2, 1, 2, 0, 2, 2, 0, 1, 3, 2, 0, 3, 2, 3, 0, 3, 3, 2, 3, 1, 2, 3, 1, 2, 2, 0, 0, 2, 2, 1, 2,
				2, 3, 3, 3, 1, 1, 0, 0, 0, 3, 2, 0, 3, 2, 3, 1, 1, 1, 1, 0, 1, 0, 1, 3, 0, 0, 1, 2, 2, 3, 2, 0,
			},
			inputs:  []uint{1, 2, 3, 5, 6, 7},
			outputs: []uint{2, 5},
		},
	},
	{
		{
			table: []uint8{
				2, 1, 2, 1, 2, 3, 1, 3, 2, 2, 1, 3, 3, 0, 0, 1, 0, 2, 0, 3, 3, 1, 0, 0, 1, 1, 0, 2, 3, 2, 1, 2,
				1, 1, 2, 1, 1, 3, 2, 2, 0, 2, 2, 3, 3, 3, 2, 0, 0, 0, 0, 0, 3, 3, 3, 0, 1, 2, 1, 0, 2, 3, 3, 1,
			},
			inputs:  []uint{2, 3, 4, 6},
			outputs: []uint{3, 5},
		},
		{
			table: []uint8{
				3, 2, 3, 3, 1, 0, 3, 0, 2, 0, 1, 1, 1, 0, 3, 0, 3, 1, 3, 1, 0, 1, 2, 3, 2, 2, 3, 2, 0, 1, 1, 2,
				3, 0, 0, 2, 1, 0, 0, 2, 2, 0, 1, 0, 0, 2, 0, 0, 1, 3, 1, 3, 2, 0, 3, 3, 1, 0, 2, 2, 2, 3, 0, 0,
			},
			inputs:  []uint{0, 1, 3, 5, 7},
			outputs: []uint{0, 2},
		},
		{
			table: []uint8{
				2, 2, 1, 0, 2, 3, 3, 0, 0, 0, 1, 3, 1, 2, 3, 2, 2, 3, 1, 3, 0, 3, 0, 3, 3, 2, 2, 1, 0, 0, 0, 2,
				1, 2, 2, 2, 0, 0, 1, 2, 0, 1, 3, 0, 2, 3, 2, 1, 3, 2, 2, 2, 3, 1, 3, 0, 2, 0, 2, 1, 0, 3, 3, 1,
			},
			inputs:  []uint{0, 1, 2, 3, 5, 7},
			outputs: []uint{1, 6},
		},
		{
			table: []uint8{
				1, 2, 3, 2, 0, 2, 1, 3, 3, 1, 0, 1, 1, 2, 2, 0, 0, 1, 1, 1, 2, 1, 1, 2, 0, 1, 3, 3, 1, 1, 1, 2,
				3, 3, 1, 0, 2, 1, 1, 1, 2, 1, 0, 0, 2, 2, 3, 2, 3, 2, 2, 0, 2, 2, 3, 3, 0, 2, 3, 0, 2, 2, 1, 1,
			},
			inputs:  []uint{0, 2, 4, 5, 6, 7},
			outputs: []uint{4, 7},
		},
	},
	{
		{
			table: []uint8{
				2, 0, 1, 1, 2, 1, 3, 3, 1, 1, 1, 2, 0, 1, 0, 2, 0, 1, 2, 0, 2, 3, 0, 2, 3, 3, 2, 2, 3, 2, 0, 1,
				3, 0, 2, 0, 2, 3, 1, 3, 2, 0, 0, 1, 1, 2, 3, 1, 1, 1, 0, 1, 2, 0, 3, 3, 1, 1, 1, 3, 3, 1, 1, 0,
			},
			inputs:  []uint{0, 1, 3, 6, 7},
			outputs: []uint{0, 3},
		},
		{
			table: []uint8{
				1, 2, 2, 1, 0, 3, 3, 1, 0, 2, 2, 2, 1, 0, 1, 0, 1, 1, 0, 1, 0, 2, 1, 0, 2, 1, 0, 2, 3, 2, 3, 3,
				2, 2, 1, 2, 2, 3, 1, 3, 3, 3, 0, 1, 0, 1, 3, 0, 0, 0, 1, 2, 0, 3, 3, 2, 3, 2, 1, 3, 2, 1, 0, 2,
			},
			inputs:  []uint{0, 1, 2, 4, 5, 6},
			outputs: []uint{4, 7},
		},
		{
			table: []uint8{
				2, 3, 2, 1, 3, 2, 3, 0, 0, 2, 1, 1, 0, 0, 3, 2, 3, 1, 0, 1, 2, 2, 2, 1, 3, 2, 2, 1, 0, 2, 1, 2,
				0, 3, 1, 0, 0, 3, 1, 1, 3, 3, 2, 0, 1, 0, 1, 3, 0, 0, 1, 2, 1, 2, 3, 2, 1, 0, 0, 3, 2, 1, 1, 3,
			},
			inputs:  []uint{0, 2, 3, 4, 5, 7},
			outputs: []uint{1, 2},
		},
		{
			table: []uint8{
				2, 0, 0, 3, 2, 2, 2, 1, 3, 3, 1, 1, 2, 0, 0, 3, 1, 0, 3, 2, 1, 0, 2, 0, 3, 2, 2, 3, 2, 0, 3, 0,
				1, 3, 0, 2, 2, 1, 3, 3, 0, 1, 0, 3, 1, 1, 3, 2, 0, 3, 0, 2, 3, 2, 1, 3, 2, 3, 0, 0, 1, 3, 2, 1,
			},
			inputs:  []uint{2, 3, 4, 5, 6, 7},
			outputs: []uint{5, 6},
		},
	},
}

var (
	defaultsOnce  sync.Once
	defaultGroups [Rounds]*Group
	defaultPerm   *Permutation
	defaultsErr   error
)

func loadDefaults() {
	for r := range fn2Boxes {
		var boxes [BoxesPerGroup]*SBox
		for i, d := range fn2Boxes[r] {
			box, err := NewSBox(d.table, d.inputs, d.outputs)
			if err != nil {
				defaultsErr = fmt.Errorf("fn2 round %d box %d: %w", r+1, i+1, err)
				return
			}
			boxes[i] = box
		}
		g, err := NewGroup(fmt.Sprintf("f2_r%d_sbox", r+1), boxes[:]...)
		if err != nil {
			defaultsErr = err
			return
		}
		defaultGroups[r] = g
	}
	defaultPerm, defaultsErr = NewPermutation(fn2GroupA, fn2GroupB)
}

// DefaultGroups returns the four fn2 s-box groups, one per round.
func DefaultGroups() ([Rounds]*Group, error) {
	defaultsOnce.Do(loadDefaults)
	return defaultGroups, defaultsErr
}

// DefaultPermutation returns the fn2 block permutation.
func DefaultPermutation() (*Permutation, error) {
	defaultsOnce.Do(loadDefaults)
	return defaultPerm, defaultsErr
}
