package main

import (
	"encoding/json"
	"fmt"
)

// unmarshalIfNonEmpty decodes payload into v, tolerating an empty reply —
// the wire format a live server would actually send back is out of this
// core's scope (spec §1), so commands that round-trip treat "nothing to
// decode" as an empty result rather than an error.
func unmarshalIfNonEmpty(payload []byte, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}

	return json.Unmarshal(payload, v)
}

func fmtPrintln(s string) {
	fmt.Println(s)
}
