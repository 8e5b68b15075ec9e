package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	var v map[string]interface{}
	require.NoError(t, ParseJSON(`{"name": "Caesar Salad"}`, &v))
	assert.Equal(t, "Caesar Salad", v["name"])
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, ParseJSON(`{"a": 1} {"b": 2}`, &v))
}

func TestParseJSONStrict(t *testing.T) {
	type target struct {
		Name string `json:"name"`
	}

	var v target
	assert.Error(t, ParseJSONStrict(`{"name": "x", "extra": 1}`, &v))
	assert.NoError(t, ParseJSON(`{"name": "x", "extra": 1}`, &v))
}

func TestQuoteJSONKeys(t *testing.T) {
	got := QuoteJSONKeys(`{dishes: ["a", "b"], count: 2}`)
	assert.Equal(t, `{"dishes": ["a", "b"], "count": 2}`, got)

	// 已經加引號的鍵不受影響
	assert.Equal(t, `{"dishes": []}`, QuoteJSONKeys(`{"dishes": []}`))
}

func TestPyLiteralToJSONList(t *testing.T) {
	raw := `['romaine lettuce', 'parmesan', 'croutons']`

	var ingredients []string
	require.NoError(t, ParseJSON(PyLiteralToJSON(raw), &ingredients))
	assert.Equal(t, []string{"romaine lettuce", "parmesan", "croutons"}, ingredients)
}

func TestPyLiteralToJSONDict(t *testing.T) {
	raw := `{'spicy': 0.1, 'sweet': 0.2, 'umami': 0.6, 'sour': 0.3, 'salty': 0.4}`

	var values map[string]float64
	require.NoError(t, ParseJSON(PyLiteralToJSON(raw), &values))
	assert.InDelta(t, 0.1, values["spicy"], 1e-9)
	assert.InDelta(t, 0.4, values["salty"], 1e-9)
}

func TestPyLiteralToJSONEscapedQuote(t *testing.T) {
	// 字串內跳脫的單引號要轉回普通字元
	raw := `['shepherd\'s pie']`

	var ingredients []string
	require.NoError(t, ParseJSON(PyLiteralToJSON(raw), &ingredients))
	assert.Equal(t, []string{"shepherd's pie"}, ingredients)
}

func TestPyLiteralToJSONEmbeddedDoubleQuote(t *testing.T) {
	// 單引號字串內的雙引號必須跳脫，不然輸出不是合法 JSON
	raw := `['6" sub roll']`

	var ingredients []string
	require.NoError(t, ParseJSON(PyLiteralToJSON(raw), &ingredients))
	assert.Equal(t, []string{`6" sub roll`}, ingredients)
}

func TestPyLiteralToJSONNone(t *testing.T) {
	raw := `{'note': None, 'ok': True, 'bad': False}`

	var values map[string]interface{}
	require.NoError(t, ParseJSON(PyLiteralToJSON(raw), &values))
	assert.Nil(t, values["note"])
	assert.Equal(t, true, values["ok"])
	assert.Equal(t, false, values["bad"])
}

func TestPyLiteralToJSONPassesThroughJSON(t *testing.T) {
	raw := `{"spicy": 0.1, "salty": 0.4}`
	assert.Equal(t, raw, PyLiteralToJSON(raw))
}
