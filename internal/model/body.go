package model

import "github.com/tidwall/gjson"

// LiftJSONBody returns raw unchanged when it holds a JSON value, and nil
// otherwise. Empty, malformed and literal null bodies all mean "no body";
// this is never an error.
func LiftJSONBody(raw []byte) []byte {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	if gjson.ParseBytes(raw).Type == gjson.Null {
		return nil
	}
	return raw
}
