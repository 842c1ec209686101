package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/LouYuanbo1/chatharvest/internal/domain/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

var ErrUnknownFormat = errors.New("未知的输出格式")

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write 输出采集结果:json为 标识 -> 记录 的映射,table按时间从旧到新排列
func Write(w io.Writer, format Format, conv *model.Conversation) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, conv)
	case FormatTable:
		WriteTable(w, conv)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func WriteJSON(w io.Writer, conv *model.Conversation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(conv); err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	return nil
}

func WriteTable(w io.Writer, conv *model.Conversation) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Type", "Author", "Text", "Rating"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Text", WidthMax: 80},
	})

	for i, e := range conv.Chronological() {
		t.AppendRow(table.Row{i + 1, typeLabel(e.Type), e.Author, e.Text, e.Rating})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d entries", conv.Len()), ""})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}

func typeLabel(t model.CellType) string {
	if t == model.CellUnknown {
		return "-"
	}
	return string(t)
}
