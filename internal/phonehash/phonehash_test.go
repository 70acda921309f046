package phonehash_test

import (
	"testing"

	"oshi_high/internal/phonehash"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "正常系: 携帯番号そのまま", input: "09012345678", want: "09012345678"},
		{name: "正常系: ハイフン付き", input: "090-1234-5678", want: "09012345678"},
		{name: "正常系: 国番号付き", input: "+819012345678", want: "+819012345678"},
		{name: "異常系: 桁数不足", input: "0901234", wantErr: true},
		{name: "異常系: 数字以外", input: "090abcd5678", wantErr: true},
		{name: "異常系: 空文字", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := phonehash.Normalize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	// 同じ電話番号からは常に同じハッシュが得られる (送信時と検証時の一致が前提)
	h1 := phonehash.Hash("09012345678")
	h2 := phonehash.Hash("09012345678")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // SHA-256 hex

	// 異なる番号は異なるハッシュ
	assert.NotEqual(t, h1, phonehash.Hash("09087654321"))
}

func TestSaltedHash(t *testing.T) {
	// ソルト未指定なら新規生成され、同じ番号でも毎回異なるハッシュになる
	hash1, salt1, err := phonehash.SaltedHash("09012345678", "")
	require.NoError(t, err)
	hash2, salt2, err := phonehash.SaltedHash("09012345678", "")
	require.NoError(t, err)
	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	// 同じソルトを渡せば再現できる
	hash3, salt3, err := phonehash.SaltedHash("09012345678", salt1)
	require.NoError(t, err)
	assert.Equal(t, salt1, salt3)
	assert.Equal(t, hash1, hash3)

	// ソルトなし導出とは互換性がない
	assert.NotEqual(t, phonehash.Hash("09012345678"), hash1)
}

func TestNewCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := phonehash.NewCode()
		require.NoError(t, err)
		assert.True(t, phonehash.IsCode(code), "generated code %q should be 6 digits", code)
	}
}

func TestIsCode(t *testing.T) {
	assert.True(t, phonehash.IsCode("123456"))
	assert.True(t, phonehash.IsCode("000000"))
	assert.False(t, phonehash.IsCode("12345"))
	assert.False(t, phonehash.IsCode("1234567"))
	assert.False(t, phonehash.IsCode("12345a"))
	assert.False(t, phonehash.IsCode("１２３４５６")) // 全角は不可
	assert.False(t, phonehash.IsCode(""))
}
