package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tabelog-sync-service/internal/domain/entity"
)

func TestExtractField(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label string
		want  string
	}{
		{"full-width colon with honorific", "お名前：山田 太郎 様\n", LabelDinerName, "山田 太郎"},
		{"half-width colon", "電話番号: 090-1234-5678\n", LabelPhone, "090-1234-5678"},
		{"non-breaking spaces around colon", "お名前\u00a0：\u00a0佐藤様\n", LabelDinerName, "佐藤"},
		{"full-width spaces around colon", "卓　：　カウンター\r\n", LabelTable, "カウンター"},
		{"count unit stripped", "人数：4名\n", LabelGuestCount, "4"},
		{"bracketed annotation stripped", "コース：おまかせコース [要事前決済]\n", LabelCourse, "おまかせコース"},
		{"first occurrence wins", "日付：01/15\n日付：02/20\n", LabelDate, "01/15"},
		{"missing label", "お名前：山田\n", LabelPhone, entity.NotAvailable},
		{"empty value", "電話番号：\n", LabelPhone, entity.NotAvailable},
		{"empty value keeps next line out", "電話番号：\nお名前：山田\n", LabelPhone, entity.NotAvailable},
		{"value reduced to nothing", "お名前：様\n", LabelDinerName, entity.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractField(tt.text, tt.label))
		})
	}
}

func TestExtractBookingID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"link in body", "詳細：https://owner.tabelog.com/booking?bookingId=net:12345678&ref=mail\n", "12345678"},
		{"digits beyond the window", "bookingId=net:1234567890", "12345678"},
		{"first occurrence wins", "bookingId=net:11111111 bookingId=net:22222222", "11111111"},
		{"too short", "bookingId=net:1234", entity.NotAvailable},
		{"absent", "no booking here", entity.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBookingID(tt.text))
		})
	}
}

func TestExtractCancellationReason(t *testing.T) {
	assert.Equal(t, "予定がなくなったため", ExtractCancellationReason("キャンセル理由：【予定がなくなったため】\n次の行"))
	assert.Equal(t, "体調不良", ExtractCancellationReason("キャンセル理由: 体調不良"))
	assert.Equal(t, entity.NotAvailable, ExtractCancellationReason("お名前：山田\n"))
}

func TestChain(t *testing.T) {
	transform := Chain(TrimSpace, StripFullWidthBrackets, TrimSpace)

	assert.Equal(t, "a", transform(" 【 a 】 "))
	assert.Equal(t, "x", Chain()("x"))
}
