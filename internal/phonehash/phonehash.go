// Package phonehash は電話番号の正規化と擬似匿名化IDの導出を提供します。
//
// 導出は2種類あります:
//   - Hash (ソルトなし): VerificationToken の identifier と User.phone_hash の
//     照合経路で使う正式な導出。DBからソルトを取得せずに再計算できる必要が
//     あるため、こちらが唯一の照合用ハッシュです。
//   - SaltedHash (ソルトあり): 保存時の強化用に残している導出。照合経路では
//     使わず、Hash と互換性はありません。
package phonehash

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// CodeExpiry は認証コードのデフォルト有効期限です
const CodeExpiry = 10 * time.Minute

// CodeLength は認証コードの桁数です
const CodeLength = 6

// 日本の携帯電話番号を想定したフォーマット (ハイフン除去後に適用)
var phonePattern = regexp.MustCompile(`^(0\d{9,10}|(\+81)?\d{10,11})$`)

// Normalize は電話番号からハイフンと空白を除去します。
// フォーマットが不正な場合はエラーを返します。
func Normalize(phone string) (string, error) {
	normalized := strings.NewReplacer("-", "", " ", "").Replace(phone)
	if !phonePattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid phone number format: %q", phone)
	}
	return normalized, nil
}

// Hash は正規化済み電話番号のソルトなしSHA-256ハッシュを返します。
// 同じ電話番号からは常に同じハッシュが得られます (送信時と検証時で一致必須)。
func Hash(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:])
}

// SaltedHash は phone+salt のSHA-256ハッシュを返します。
// salt が空の場合は16バイトの乱数ソルトを新規生成します。
func SaltedHash(phone, salt string) (hash, usedSalt string, err error) {
	if salt == "" {
		salt, err = NewSalt()
		if err != nil {
			return "", "", err
		}
	}
	sum := sha256.Sum256([]byte(phone + salt))
	return hex.EncodeToString(sum[:]), salt, nil
}

// NewSalt は16バイトの乱数ソルトをhex文字列で返します
func NewSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("phonehash.NewSalt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewCode は一様ランダムな6桁の数字コードを生成します。
// crypto/rand を使い、000000〜999999 を偏りなく生成します。
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("phonehash.NewCode: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// IsCode は文字列がちょうど6桁のASCII数字かどうかを返します
func IsCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
