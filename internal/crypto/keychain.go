// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"unicode/utf16"
)

// keyChainService is the private implementation of [KeyChainService].
// It is stateless; the derived key is owned by the caller.
type keyChainService struct {
	hashChain HashChainService
}

// NewKeyChainService constructs a [KeyChainService]. Random IVs are drawn
// through the provided hash chain's CSPRNG accessor.
func NewKeyChainService(hashChain HashChainService) KeyChainService {
	return &keyChainService{hashChain: hashChain}
}

// DeriveKey implements [KeyChainService]. It copies the UTF-8 bytes of the
// master password left-aligned into a zeroed KeySize buffer; copy truncates
// when the password is longer than the buffer. This minimal, unstretched
// derivation is the compatibility contract of the original scheme — do not
// replace it with a salted KDF without versioning the stored ciphertexts.
func (k *keyChainService) DeriveKey(masterPassword string) []byte {
	key := make([]byte, KeySize)
	copy(key, masterPassword)
	return key
}

// Encrypt implements [KeyChainService]. It generates a fresh random IV for
// every call — IV reuse across saves would let an observer correlate equal
// plaintext prefixes — and delegates to EncryptWithIV.
func (k *keyChainService) Encrypt(key []byte, secret string) ([]byte, []byte, error) {
	iv, err := k.hashChain.RandomBytes(IVSize)
	if err != nil {
		return nil, nil, err
	}

	ciphertext, err := k.EncryptWithIV(key, iv, secret)
	if err != nil {
		return nil, nil, err
	}

	return ciphertext, iv, nil
}

// EncryptWithIV implements [KeyChainService]. The secret is encoded as a
// little-endian sequence of UTF-16 code units (the in-memory representation
// of the original string type), PKCS#7-padded to the AES block size, and
// encrypted in CBC mode.
func (k *keyChainService) EncryptWithIV(key, iv []byte, secret string) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(iv) != IVSize {
		return nil, ErrInvalidIVSize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plaintext := pkcs7Pad(encodeCodeUnits(secret), aes.BlockSize)

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	return ciphertext, nil
}

// Decrypt implements [KeyChainService]. It reverses EncryptWithIV: CBC
// decryption, PKCS#7 unpadding, then decoding the UTF-16 code-unit sequence
// back into a string.
func (k *keyChainService) Decrypt(key, iv, ciphertext []byte) (string, error) {
	if len(key) != KeySize {
		return "", ErrInvalidKeySize
	}
	if len(iv) != IVSize {
		return "", ErrInvalidIVSize
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrCiphertextNotAligned
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return decodeCodeUnits(unpadded)
}

// encodeCodeUnits converts s into its UTF-16 code-unit sequence, serialised
// little-endian. Characters outside the BMP become surrogate pairs.
func encodeCodeUnits(s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[2*i:], u)
	}
	return buf
}

// decodeCodeUnits reverses encodeCodeUnits. It fails if the byte length is
// odd, since a valid code-unit sequence is always an even number of bytes.
func decodeCodeUnits(buf []byte) (string, error) {
	if len(buf)%2 != 0 {
		return "", ErrOddCiphertext
	}

	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	return string(utf16.Decode(units)), nil
}

// pkcs7Pad appends 1..blockSize padding bytes, each equal to the padding
// length. An exact multiple of blockSize gains a full padding block.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad validates and strips PKCS#7 padding.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrBadPadding
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrBadPadding
		}
	}

	return data[:len(data)-padLen], nil
}
