// This file is part of reachmap (https://github.com/spezifisch/reachmap).
// Copyright (C) 2021-2022 spezifisch <spezifisch-7e6@below.fr> (https://github.com/spezifisch).
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, version 3 of the License.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE. See the GNU Affero General Public License for more
// details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

package compile

import (
	"context"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spezifisch/reachmap/pkg/geo"
	"github.com/spezifisch/reachmap/pkg/metrics"
	"github.com/spezifisch/reachmap/pkg/reach"
)

func TestCompiler_Update(t *testing.T) {
	ctx := context.Background()
	reg := metrics.NewRegistry()
	c := NewCompiler(reach.DefaultParams(), 2, reg)
	model := testModel()

	markers := []Marker{
		{Position: origin, MaxTravelTime: 30},
		{Position: farOff, MaxTravelTime: 15},
		DefaultMarker(origin, 2, 20),
	}

	first, err := c.Update(ctx, model, markers)
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i, compiled := range first {
		assert.Equal(t, markers[i], compiled.Marker)
	}

	// nothing changed, every slot is reused
	second, err := c.Update(ctx, model, markers)
	require.NoError(t, err)
	for i := range markers {
		assert.Same(t, first[i], second[i])
	}

	// moving one marker only recompiles its slot
	moved := append([]Marker(nil), markers...)
	moved[1] = Marker{Position: farOff, MaxTravelTime: 25}
	third, err := c.Update(ctx, model, moved)
	require.NoError(t, err)
	assert.Same(t, first[0], third[0])
	assert.NotSame(t, first[1], third[1])
	assert.Equal(t, moved[1], third[1].Marker)
	assert.Same(t, first[2], third[2])

	// removing a marker drops the trailing slot and keeps the others
	fourth, err := c.Update(ctx, model, moved[:2])
	require.NoError(t, err)
	require.Len(t, fourth, 2)
	assert.Same(t, third[0], fourth[0])
	assert.Same(t, third[1], fourth[1])
	assert.Len(t, c.Compiled(), 2)

	// a new network invalidates everything
	fifth, err := c.Update(ctx, testModel(), moved[:2])
	require.NoError(t, err)
	assert.NotSame(t, fourth[0], fifth[0])
	assert.NotSame(t, fourth[1], fifth[1])
	assert.Equal(t, sortedPOIs(fourth[0].POIs.All()), sortedPOIs(fifth[0].POIs.All()))

	var m dto.Metric
	require.NoError(t, reg.RecompilesSkipped.Write(&m))
	// 3 on the second update, 2 on the third, 2 on the fourth
	assert.Equal(t, 7.0, m.Counter.GetValue())

	m = dto.Metric{}
	require.NoError(t, reg.SearchesTotal.Write(&m))
	// 3 + 1 + 2
	assert.Equal(t, 6.0, m.Counter.GetValue())
}

func TestCompiler_UpdateCanceled(t *testing.T) {
	c := NewCompiler(reach.DefaultParams(), 0, nil)
	model := testModel()
	markers := []Marker{{Position: origin, MaxTravelTime: 30}}

	before, err := c.Update(context.Background(), model, markers)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Update(ctx, model, []Marker{{Position: geo.LatLng{Lat: 1, Lng: 1}, MaxTravelTime: 30}})
	require.ErrorIs(t, err, context.Canceled)

	after := c.Compiled()
	require.Len(t, after, 1)
	assert.Same(t, before[0], after[0])
}

func TestCompiler_Empty(t *testing.T) {
	c := NewCompiler(reach.DefaultParams(), 1, nil)
	got, err := c.Update(context.Background(), testModel(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCompiler_FailedUpdateRecordsNoMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	c := NewCompiler(reach.DefaultParams(), 1, reg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Update(ctx, testModel(), []Marker{
		{Position: origin, MaxTravelTime: 30},
		{Position: farOff, MaxTravelTime: 30},
	})
	require.ErrorIs(t, err, context.Canceled)

	var m dto.Metric
	require.NoError(t, reg.SearchesTotal.Write(&m))
	assert.Equal(t, 0.0, m.Counter.GetValue())

	m = dto.Metric{}
	require.NoError(t, reg.RecompilesSkipped.Write(&m))
	assert.Equal(t, 0.0, m.Counter.GetValue())

	families, err := reg.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.NotEqual(t, "reachmap_pois", f.GetName(), "POI gauge set by a failed update")
	}
}
