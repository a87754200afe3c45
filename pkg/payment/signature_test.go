package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerifyBody(t *testing.T) {
	body := []byte(`{"reference":"inv1-abc","status":"SUCCESS"}`)
	sig := SignBody("s3cret", body)

	assert.True(t, VerifyBody("s3cret", body, sig))
	assert.False(t, VerifyBody("wrong", body, sig))
	assert.False(t, VerifyBody("s3cret", []byte(`tampered`), sig))
	assert.False(t, VerifyBody("s3cret", body, ""))
}

func TestStubProviderParseCallback(t *testing.T) {
	s := &StubProvider{}
	cb, err := s.ParseCallback([]byte(`{"reference":"inv1-abc","status":"SUCCESS","amount_cents":5000}`))
	assert.NoError(t, err)
	assert.Equal(t, "inv1-abc", cb.Reference)
	assert.Equal(t, int64(5000), cb.AmountCents)

	_, err = s.ParseCallback([]byte(`{"status":"SUCCESS"}`))
	assert.Error(t, err)

	_, err = s.ParseCallback([]byte(`not json`))
	assert.Error(t, err)
}

func TestStubProviderName(t *testing.T) {
	assert.Equal(t, "stub", (&StubProvider{}).Name())
	assert.Equal(t, "bank", (&StubProvider{ProviderName: "bank"}).Name())
}
