package forms

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

type answerKind int

const (
	answerNone answerKind = iota
	answerText
	answerNumber
	answerBool
	answerList
)

// Answer is a single submitted value, parsed into one of the shapes the form
// inputs can produce: a string, a number, a boolean or a list of strings.
// Anything else (nested objects, mixed arrays) is rejected at decode time.
type Answer struct {
	kind    answerKind
	text    string
	number  float64
	boolean bool
	list    []string
}

// Answers maps Field.Nombre to the submitted value.
type Answers map[string]Answer

func TextAnswer(s string) Answer      { return Answer{kind: answerText, text: s} }
func NumberAnswer(n float64) Answer   { return Answer{kind: answerNumber, number: n} }
func BoolAnswer(b bool) Answer        { return Answer{kind: answerBool, boolean: b} }
func ListAnswer(vs ...string) Answer  { return Answer{kind: answerList, list: vs} }

var errAnswerShape = errors.New("unsupported answer shape")

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = TextAnswer(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = NumberAnswer(n)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*a = BoolAnswer(b)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*a = Answer{kind: answerList, list: list}
		return nil
	}
	if string(data) == "null" {
		*a = Answer{}
		return nil
	}
	return errAnswerShape
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerText:
		return json.Marshal(a.text)
	case answerNumber:
		return json.Marshal(a.number)
	case answerBool:
		return json.Marshal(a.boolean)
	case answerList:
		return json.Marshal(a.list)
	}
	return []byte("null"), nil
}

// Empty reports whether the answer counts as "not provided" for required
// checks: absent, a blank string or an empty list. Numbers and booleans are
// never empty.
func (a Answer) Empty() bool {
	switch a.kind {
	case answerText:
		return strings.TrimSpace(a.text) == ""
	case answerList:
		return len(a.list) == 0
	case answerNone:
		return true
	}
	return false
}

// Scalar returns the value's string form when the answer is a single value.
// List answers have no scalar form.
func (a Answer) Scalar() (string, bool) {
	switch a.kind {
	case answerText:
		return a.text, true
	case answerNumber:
		return strconv.FormatFloat(a.number, 'f', -1, 64), true
	case answerBool:
		return strconv.FormatBool(a.boolean), true
	}
	return "", false
}

// List returns the value as a string slice, or ok=false for scalar answers.
func (a Answer) List() ([]string, bool) {
	if a.kind != answerList {
		return nil, false
	}
	return a.list, true
}

// Number returns the numeric value of the answer, accepting numeric strings
// since HTML number inputs submit text.
func (a Answer) Number() (float64, bool) {
	switch a.kind {
	case answerNumber:
		return a.number, true
	case answerText:
		n, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
