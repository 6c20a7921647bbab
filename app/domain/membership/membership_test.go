package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionValidForKind(t *testing.T) {
	cases := []struct {
		permission Permission
		kind       TargetKind
		want       bool
	}{
		{PermissionViewer, TargetKindProject, true},
		{PermissionCommenter, TargetKindProject, true},
		{PermissionEditor, TargetKindProject, true},
		{PermissionAdmin, TargetKindProject, true},
		{PermissionViewer, TargetKindRepository, true},
		{PermissionEditor, TargetKindRepository, true},
		{PermissionCommenter, TargetKindRepository, false},
		{PermissionAdmin, TargetKindRepository, false},
		{Permission("owner"), TargetKindProject, false},
		{PermissionViewer, TargetKind("organization"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.permission.ValidForKind(tc.kind), "%s on %s", tc.permission, tc.kind)
	}
}

func TestTargetKindValid(t *testing.T) {
	assert.True(t, TargetKindProject.Valid())
	assert.True(t, TargetKindRepository.Valid())
	assert.False(t, TargetKind("team").Valid())
}
