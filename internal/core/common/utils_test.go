package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type queryList struct {
	Queries []string `json:"queries"`
}

func TestParseJSON(t *testing.T) {
	response := "Here are the queries:\n```json\n{\"queries\": [\"a\", \"b\"]}\n```"

	result, err := ParseJSON[queryList](response)

	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Queries)
}

func TestParseJSONNoObject(t *testing.T) {
	_, err := ParseJSON[queryList]("no json here")
	assert.Error(t, err)
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := ParseJSON[queryList](`{"queries": [`)
	assert.Error(t, err)
}

func TestParseJSONList(t *testing.T) {
	response := "Sure:\n[\"first query\", \"second query\"]"

	result, err := ParseJSONList[string](response)

	assert.NoError(t, err)
	assert.Equal(t, []string{"first query", "second query"}, result)
}

func TestParseJSONListNoArray(t *testing.T) {
	_, err := ParseJSONList[string]("nothing")
	assert.Error(t, err)
}
