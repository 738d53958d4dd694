package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchMode
		wantErr bool
	}{
		{"", ModeBoth, false},
		{"B", ModeBoth, false},
		{"r", ModeRadius, false},
		{" radius ", ModeRadius, false},
		{"d", ModeDriveTime, false},
		{"x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSearchMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchMode_Params(t *testing.T) {
	radius, drive := Float(5), Float(20)

	p := ModeRadius.Params("Austin, TX", radius, drive)
	assert.Equal(t, "Austin, TX", p.Address)
	assert.True(t, p.HasRadius())
	assert.False(t, p.HasMaxDriveTime())

	p = ModeDriveTime.Params("Austin, TX", radius, drive)
	assert.False(t, p.HasRadius())
	assert.True(t, p.HasMaxDriveTime())

	p = ModeBoth.Params("Austin, TX", radius, drive)
	assert.True(t, p.HasRadius())
	assert.True(t, p.HasMaxDriveTime())
}
