package equipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrewConfigFromPositions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		positions []string
		want      CrewConfig
	}{
		{
			name:      "residential crew",
			positions: []string{"isa_certified_arborist", "ground_crew_lead", "ground_crew_member"},
			// 1 climber, 2 ground: 1*2 + max(1, 2/2) = 3 saws
			want: CrewConfig{Climbers: 1, GroundCrew: 2, Chainsaws: 3, Crews: 1},
		},
		{
			name:      "two climbers four ground",
			positions: []string{"isa_certified_arborist", "experienced_climber", "ground_crew_lead", "ground_crew_member", "ground_crew_member", "ground_crew_member"},
			// 2*2 + 4/2 = 6 saws
			want: CrewConfig{Climbers: 2, GroundCrew: 4, Chainsaws: 6, Crews: 1},
		},
		{
			name:      "operator only crew gets minimum saws",
			positions: []string{"equipment_operator"},
			want:      CrewConfig{Climbers: 0, GroundCrew: 0, Chainsaws: 2, Crews: 1},
		},
		{
			name:      "empty crew",
			positions: nil,
			want:      CrewConfig{Climbers: 0, GroundCrew: 0, Chainsaws: 2, Crews: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CrewConfigFromPositions(tt.positions))
		})
	}
}

func TestSmallToolsCost(t *testing.T) {
	t.Parallel()

	crew := CrewConfig{Climbers: 1, GroundCrew: 2, Chainsaws: 3, Crews: 1}
	total, pools := SmallToolsCost(crew, nil)

	// saws: 0.42*3 = 1.26
	// climbing: 0.42*1 = 0.42
	// hand tools: 0.17, rigging: 0.28, small fuel: 0.33 (per crew)
	// safety: 0.25*3 = 0.75, ppe: 0.10*3 = 0.30
	assert.InDelta(t, 3.51, total, 0.001)
	assert.Len(t, pools, 7)

	var sum float64
	for _, p := range pools {
		sum += p.PerHour
	}
	assert.InDelta(t, total, sum, 1e-9)
}

func TestSmallToolsCostEmptyCrew(t *testing.T) {
	t.Parallel()
	total, _ := SmallToolsCost(CrewConfig{}, nil)
	assert.InDelta(t, 0, total, 1e-9)
}

func TestDefaultToolPools(t *testing.T) {
	t.Parallel()
	pools := DefaultToolPools()
	assert.Len(t, pools, 7)
	for _, p := range pools {
		assert.Greater(t, p.RatePerHour, 0.0, "pool %s", p.Name)
		assert.NotEmpty(t, p.Basis, "pool %s", p.Name)
	}
}
