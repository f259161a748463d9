// Package block_test tests data bag merging and info descriptor evaluation.
// Related: internal/block/block.go
// Tags: block, info, data, formatting
package block_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/multistage/internal/block"
)

func TestData_Merge(t *testing.T) {
	t.Parallel()

	base := block.Data{"region": "eu", "count": 1}
	merged := base.Merge(block.Data{"count": 2, "host": "api"})

	assert.Equal(t, block.Data{"region": "eu", "count": 2, "host": "api"}, merged)
	assert.Equal(t, 1, base["count"], "merge must not mutate the receiver")

	var empty block.Data
	assert.Equal(t, block.Data{"a": 1}, empty.Merge(block.Data{"a": 1}))
}

func TestData_Getters(t *testing.T) {
	t.Parallel()

	d := block.Data{"s": "text", "n": 3, "f": 4.0, "ns": "12", "bad": "x", "nil": nil}

	assert.Equal(t, "text", d.String("s"))
	assert.Equal(t, "3", d.String("n"))
	assert.Equal(t, "", d.String("missing"))
	assert.Equal(t, "", d.String("nil"))

	tests := map[string]struct {
		key    string
		want   int
		wantOK bool
	}{
		"int":        {key: "n", want: 3, wantOK: true},
		"float":      {key: "f", want: 4, wantOK: true},
		"numeric":    {key: "ns", want: 12, wantOK: true},
		"not number": {key: "bad", want: 0, wantOK: false},
		"missing":    {key: "missing", want: 0, wantOK: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := d.Int(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	descriptors := []block.Descriptor{
		{Kind: block.Message, Value: "static message"},
		{Kind: block.StaticKeyValue, Label: "Region", Value: "eu-west-1"},
		{Kind: block.DynamicKeyValue, Label: "Host", Get: func(d block.Data) string { return d.String("host") }},
		{Kind: block.DynamicKeyValue, Label: "Boom", Stage: "deploy", Get: func(block.Data) string { panic("boom") }},
		{Kind: block.Message, Stage: "deploy", NeverCollapse: true, Get: func(d block.Data) string { return "at " + d.String("host") }},
		{Kind: block.StaticKeyValue, Label: "Org", Value: "fallback", Get: func(d block.Data) string { return d.String("org") }},
	}

	got := block.Format(descriptors, block.Data{"host": "api", "org": "acme"})

	want := []block.Formatted{
		{Kind: block.Message, Value: "static message", Index: 0},
		{Kind: block.StaticKeyValue, Label: "Region", Value: "eu-west-1", Index: 1},
		{Kind: block.DynamicKeyValue, Label: "Host", Value: "api", Index: 2},
		{Kind: block.DynamicKeyValue, Label: "Boom", Stage: "deploy", Value: "", Index: 3},
		{Kind: block.Message, Stage: "deploy", Value: "at api", NeverCollapse: true, Index: 4},
		{Kind: block.StaticKeyValue, Label: "Org", Value: "acme", Index: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, block.Global(got), 4)
	assert.Len(t, block.ForStage(got, "deploy"), 2)
	assert.Empty(t, block.ForStage(got, "build"))
	assert.Nil(t, block.Format(nil, nil))
}

func TestFormatted_Text(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		item        block.Formatted
		wantText    string
		wantPending bool
	}{
		"message": {
			item:     block.Formatted{Kind: block.Message, Value: "hello"},
			wantText: "hello",
		},
		"key value": {
			item:     block.Formatted{Kind: block.StaticKeyValue, Label: "Region", Value: "eu"},
			wantText: "Region: eu",
		},
		"dynamic without value": {
			item:        block.Formatted{Kind: block.DynamicKeyValue, Label: "Host"},
			wantText:    "Host: ",
			wantPending: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantText, tt.item.Text())
			assert.Equal(t, tt.wantPending, tt.item.Pending())
		})
	}
}
