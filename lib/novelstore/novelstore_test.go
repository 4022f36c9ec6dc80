package novelstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	testCases := []struct {
		raw      string
		expected Status
	}{
		{"Đang tiến hành", StatusOngoing},
		{"  đang   tiến hành ", StatusOngoing},
		{"Ongoing", StatusOngoing},
		{"Đã hoàn thành", StatusCompleted},
		{"COMPLETED", StatusCompleted},
		{"Tạm ngưng", StatusPaused},
		{"tạm dừng", StatusPaused},
		{"Đã drop", StatusDropped},
		{"", StatusUnknown},
		{"   ", StatusUnknown},
		{"Không rõ", StatusUnknown},
		// labels the site may grow are passed through untouched
		{"Sắp ra mắt", Status("Sắp ra mắt")},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeStatus(test.raw), "raw: %q", test.raw)
	}
}
