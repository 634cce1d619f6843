package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zinput/hub/device"
)

func TestNew_MatchesInfoShape(t *testing.T) {
	info := &device.Info{
		Name:        "pad",
		Controllers: []device.ControllerInfo{{ButtonNames: []string{"a", "b"}, AnalogsCount: 2}},
		Motions:     []device.MotionInfo{{HasGyro: true}},
	}

	d := device.New(info)
	assert.True(t, d.MatchesShape(info))
	assert.Len(t, d.Controllers, 1)
	assert.Len(t, d.Motions, 1)
	assert.Equal(t, uint32(2), d.Controllers[0].Analogs.Len)
	assert.NotNil(t, d.Controllers[0].Analogs.Ptr)
}

func TestNew_NoAnalogs(t *testing.T) {
	info := &device.Info{Controllers: []device.ControllerInfo{{}}}
	d := device.New(info)
	assert.Equal(t, uint32(0), d.Controllers[0].Analogs.Len)
	assert.Nil(t, d.Controllers[0].Analogs.Ptr)
}
