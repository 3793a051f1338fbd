package types

import (
	"encoding/base64"
	"encoding/binary"
	"errors"

	sf "github.com/tinode/snowflake"
	"golang.org/x/crypto/xtea"
)

// UidGenerator holds snowflake and encryption parameters.
// Database-generated sequential ids would leak topic and post creation
// volume; snowflake-generated uint64 encrypted with XTEA look random.
type UidGenerator struct {
	seq    *sf.SnowFlake
	cipher *xtea.Cipher
}

// Init initializes the Uid generator.
func (ug *UidGenerator) Init(workerID uint, key []byte) error {
	var err error

	if ug.seq == nil {
		ug.seq, err = sf.NewSnowFlake(uint32(workerID))
		if err != nil {
			return err
		}
	}
	if ug.cipher == nil {
		ug.cipher, err = xtea.NewCipher(key)
	}

	return err
}

// Get generates a unique weakly encrypted random-looking id.
func (ug *UidGenerator) Get() Uid {
	buf, err := ug.getIdBuffer()
	if err != nil {
		return ZeroUid
	}
	return Uid(binary.LittleEndian.Uint64(buf))
}

// GetStr generates a unique id then returns it as a base64-encoded string.
func (ug *UidGenerator) GetStr() string {
	buf, err := ug.getIdBuffer()
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(buf)[:uidBase64Unpadded]
}

// DecodeUid takes an XTEA encrypted Uid and decrypts it into an int64.
// Used for compatibility with SQL integer primary keys.
func (ug *UidGenerator) DecodeUid(uid Uid) int64 {
	var src, dst [8]byte
	binary.LittleEndian.PutUint64(src[:], uint64(uid))
	ug.cipher.Decrypt(dst[:], src[:])
	return int64(binary.LittleEndian.Uint64(dst[:]))
}

// EncodeInt64 applies XTEA encryption to an int64 value. It's the inverse
// of DecodeUid.
func (ug *UidGenerator) EncodeInt64(val int64) Uid {
	var src, dst [8]byte
	binary.LittleEndian.PutUint64(src[:], uint64(val))
	ug.cipher.Encrypt(dst[:], src[:])
	return Uid(binary.LittleEndian.Uint64(dst[:]))
}

// getIdBuffer returns a byte array holding the Uid bytes.
func (ug *UidGenerator) getIdBuffer() ([]byte, error) {
	if ug.seq == nil || ug.cipher == nil {
		return nil, errors.New("uid generator is not initialized")
	}

	id, err := ug.seq.Next()
	if err != nil {
		return nil, err
	}

	src := make([]byte, 8)
	dst := make([]byte, 8)
	binary.LittleEndian.PutUint64(src, id)
	ug.cipher.Encrypt(dst, src)

	return dst, nil
}
