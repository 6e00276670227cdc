package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabelog-sync-service/pkg/logger"
	"tabelog-sync-service/templates"
)

func TestSubjectRouter(t *testing.T) {
	nop := logger.NewNopLogger()
	r := NewSubjectRouter(nop)
	r.Register(templates.NewDailySummaryHandler(nil, nop))
	r.Register(templates.NewNewReservationHandler(nil, nop))
	r.Register(templates.NewChangedReservationHandler(nil, nop))
	r.Register(templates.NewCancelledReservationHandler(nil, nop))

	tests := []struct {
		subject string
		want    string
	}{
		{"【食べログ】新しい予約が入りました", "reservation_new"},
		{"【食べログ】予約内容が変更されました", "reservation_changed"},
		{"【食べログ】予約内容がキャンセルされました", "reservation_cancelled"},
		{"【食べログ】予約がキャンセルされました", "reservation_cancelled"},
		{"【食べログ】本日のネット予約一覧", "daily_summary"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			handler := r.GetHandler(tt.subject)
			require.NotNil(t, handler)
			assert.Equal(t, tt.want, handler.Name())
		})
	}

	assert.Nil(t, r.GetHandler("【食べログ】口コミが投稿されました"))
}
