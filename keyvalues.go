package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Valve KeyValues text encoding, the dialect Steam writes itself: quoted
// tokens, tab indentation, subkeys in braces. Keys are emitted sorted so the
// same tree always encodes to the same bytes.

var keyValuesEscaper = strings.NewReplacer(
	"\\", `\\`,
	"\"", `\"`,
	"\n", `\n`,
	"\t", `\t`,
)

func quoteKeyValues(s string) string {
	return "\"" + keyValuesEscaper.Replace(s) + "\""
}

func encodeKeyValues(w io.Writer, tree map[string]interface{}) error {
	bw := bufio.NewWriter(w)
	writeKeyValuesMap(bw, 0, tree)
	return bw.Flush()
}

func writeKeyValuesMap(w *bufio.Writer, depth int, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeKeyValuesNode(w, depth, k, m[k])
	}
}

func writeKeyValuesNode(w *bufio.Writer, depth int, key string, value interface{}) {
	indent := strings.Repeat("\t", depth)
	switch v := value.(type) {
	case map[string]interface{}:
		fmt.Fprintf(w, "%s%s\n%s{\n", indent, quoteKeyValues(key), indent)
		writeKeyValuesMap(w, depth+1, v)
		fmt.Fprintf(w, "%s}\n", indent)
	case string:
		fmt.Fprintf(w, "%s%s\t\t%s\n", indent, quoteKeyValues(key), quoteKeyValues(v))
	default:
		fmt.Fprintf(w, "%s%s\t\t%s\n", indent, quoteKeyValues(key), quoteKeyValues(fmt.Sprint(v)))
	}
}
