package cache

import (
	"fmt"
	"strconv"
)

// Key builders shared by the API handlers and the report warmer, so a
// warmed entry lands exactly where the handler looks.

func ProfileKey(symbol, tf string, n int, detailed bool) string {
	return fmt.Sprintf("profile:%s:%s:%d:%s", symbol, tf, n, strconv.FormatBool(detailed))
}

func FlowKey(symbol, tf string, n int) string {
	return fmt.Sprintf("flow:%s:%s:%d", symbol, tf, n)
}

func StructureKey(symbol, tf string, n int) string {
	return fmt.Sprintf("structure:%s:%s:%d", symbol, tf, n)
}

func ReportKey(symbol, tf string, n int) string {
	return fmt.Sprintf("report:%s:%s:%d", symbol, tf, n)
}
