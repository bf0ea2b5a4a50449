package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestEncodeThenDecode(t *testing.T) {
	msgs, err := Encode([]Event{{Key: "7", Value: doc{ID: 7, Name: "Seven"}}})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "7", string(msgs[0].Key))

	got, err := DecodeJSON[doc](msgs[0].Value)
	require.NoError(t, err)
	assert.Equal(t, doc{ID: 7, Name: "Seven"}, got)
}

func TestEncode_Unmarshalable(t *testing.T) {
	_, err := Encode([]Event{{Key: "x", Value: make(chan int)}})
	assert.Error(t, err)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := DecodeJSON[doc]([]byte("{not json"))
	assert.Error(t, err)
}
