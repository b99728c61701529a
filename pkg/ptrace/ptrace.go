package ptrace

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	Magic     = "PTRC"
	VersionV1 = uint16(1)

	// fixed part of the header before the title bytes
	headerSize = 4 + 2 + 2 + 8 + 2 + 4 + 4 + 2
	frameSize  = 4 + 4 + 4 + 4 + 4
	crcSize    = 4

	secureMagic      = "PTRC_SEALED"
	secureVersionV1  = uint16(1)
	secureFlagComp   = uint16(1 << 0)
	secureFlagEnc    = uint16(1 << 1)
	secureSaltSize   = 16
	secureNonceSize  = 12
	secureHeaderSize = len(secureMagic) + 2 + 2 + secureSaltSize + secureNonceSize + 8
	kdfIterations    = 200000
)

type EncryptionOptions struct {
	Enabled  bool
	Password string
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

type LoadOptions struct {
	Password string
}

type EnvelopeInfo struct {
	Wrapped     bool
	Compressed  bool
	Encrypted   bool
	EnvelopeVer uint16
}

// Frame is one raw pointer sample together with the window size that was
// current when it was taken.
type Frame struct {
	Buttons uint32
	X       int32
	Y       int32
	WindowW int32
	WindowH int32
}

type Meta struct {
	Title         string
	CreatedUnix   int64
	TPS           uint16
	LogicalWidth  int32
	LogicalHeight int32
}

type Recording struct {
	Meta   Meta
	Frames []Frame
}

var (
	ErrInvalidMagic      = errors.New("ptrace: invalid magic")
	ErrUnsupportedVer    = errors.New("ptrace: unsupported version")
	ErrTruncated         = errors.New("ptrace: truncated data")
	ErrChecksum          = errors.New("ptrace: checksum mismatch")
	ErrInvalidMeta       = errors.New("ptrace: invalid metadata")
	ErrPasswordRequired  = errors.New("ptrace: password required")
	ErrInvalidPassword   = errors.New("ptrace: invalid password")
	ErrInvalidSecureFile = errors.New("ptrace: invalid secure file")
)

func NewRecording(title string, tps int) *Recording {
	if tps <= 0 || tps > math.MaxUint16 {
		tps = 60
	}
	return &Recording{Meta: Meta{
		Title:         title,
		CreatedUnix:   time.Now().Unix(),
		TPS:           uint16(tps),
		LogicalWidth:  1,
		LogicalHeight: 1,
	}}
}

func (r *Recording) Append(f Frame) {
	r.Frames = append(r.Frames, f)
}

func (r *Recording) Duration() time.Duration {
	if r == nil || r.Meta.TPS == 0 {
		return 0
	}
	return time.Duration(len(r.Frames)) * time.Second / time.Duration(r.Meta.TPS)
}

func Validate(r *Recording) error {
	if r == nil {
		return errors.New("ptrace: recording is nil")
	}
	if r.Meta.TPS == 0 {
		return fmt.Errorf("%w: tps must be positive", ErrInvalidMeta)
	}
	if r.Meta.LogicalWidth <= 0 || r.Meta.LogicalHeight <= 0 {
		return fmt.Errorf("%w: logical size %dx%d", ErrInvalidMeta, r.Meta.LogicalWidth, r.Meta.LogicalHeight)
	}
	if len(r.Meta.Title) > math.MaxUint16 {
		return fmt.Errorf("%w: title too long", ErrInvalidMeta)
	}
	if !utf8.ValidString(r.Meta.Title) {
		return fmt.Errorf("%w: title is not utf-8", ErrInvalidMeta)
	}
	if uint64(len(r.Frames)) > math.MaxUint32 {
		return fmt.Errorf("%w: too many frames", ErrInvalidMeta)
	}
	return nil
}

func Encode(r *Recording) ([]byte, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	out := make([]byte, 0, headerSize+len(r.Meta.Title)+4+len(r.Frames)*frameSize+crcSize)
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint16(out, VersionV1)
	out = binary.LittleEndian.AppendUint16(out, 0)
	out = binary.LittleEndian.AppendUint64(out, uint64(r.Meta.CreatedUnix))
	out = binary.LittleEndian.AppendUint16(out, r.Meta.TPS)
	out = binary.LittleEndian.AppendUint32(out, uint32(r.Meta.LogicalWidth))
	out = binary.LittleEndian.AppendUint32(out, uint32(r.Meta.LogicalHeight))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(r.Meta.Title)))
	out = append(out, r.Meta.Title...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(r.Frames)))
	for _, f := range r.Frames {
		out = binary.LittleEndian.AppendUint32(out, f.Buttons)
		out = binary.LittleEndian.AppendUint32(out, uint32(f.X))
		out = binary.LittleEndian.AppendUint32(out, uint32(f.Y))
		out = binary.LittleEndian.AppendUint32(out, uint32(f.WindowW))
		out = binary.LittleEndian.AppendUint32(out, uint32(f.WindowH))
	}
	out = binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(out))
	return out, nil
}

func Decode(b []byte) (*Recording, error) {
	if len(b) < len(Magic) || string(b[:len(Magic)]) != Magic {
		return nil, ErrInvalidMagic
	}
	if len(b) < headerSize+4+crcSize {
		return nil, ErrTruncated
	}
	body := b[:len(b)-crcSize]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(b[len(b)-crcSize:]) {
		return nil, ErrChecksum
	}

	version := binary.LittleEndian.Uint16(body[4:6])
	if version != VersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVer, version)
	}
	r := &Recording{}
	r.Meta.CreatedUnix = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.Meta.TPS = binary.LittleEndian.Uint16(body[16:18])
	r.Meta.LogicalWidth = int32(binary.LittleEndian.Uint32(body[18:22]))
	r.Meta.LogicalHeight = int32(binary.LittleEndian.Uint32(body[22:26]))
	titleLen := int(binary.LittleEndian.Uint16(body[26:28]))

	off := headerSize
	if len(body) < off+titleLen+4 {
		return nil, ErrTruncated
	}
	r.Meta.Title = string(body[off : off+titleLen])
	off += titleLen
	count := int(binary.LittleEndian.Uint32(body[off : off+4]))
	off += 4
	if (len(body)-off)/frameSize != count || (len(body)-off)%frameSize != 0 {
		return nil, ErrTruncated
	}
	r.Frames = make([]Frame, count)
	for i := range r.Frames {
		p := body[off+i*frameSize:]
		r.Frames[i] = Frame{
			Buttons: binary.LittleEndian.Uint32(p[0:4]),
			X:       int32(binary.LittleEndian.Uint32(p[4:8])),
			Y:       int32(binary.LittleEndian.Uint32(p[8:12])),
			WindowW: int32(binary.LittleEndian.Uint32(p[12:16])),
			WindowH: int32(binary.LittleEndian.Uint32(p[16:20])),
		}
	}
	if err := Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

func Save(path string, r *Recording) error {
	return SaveWithOptions(path, r, SaveOptions{})
}

func SaveWithOptions(path string, r *Recording, opts SaveOptions) error {
	if r == nil {
		return errors.New("ptrace: recording is nil")
	}
	if r.Meta.CreatedUnix == 0 {
		r.Meta.CreatedUnix = time.Now().Unix()
	}
	blob, err := Encode(r)
	if err != nil {
		return err
	}

	if opts.Compression {
		blob, err = compressBytes(blob)
		if err != nil {
			return err
		}
	}
	if opts.Encryption.Enabled && strings.TrimSpace(opts.Encryption.Password) == "" {
		return ErrPasswordRequired
	}
	if opts.Compression || opts.Encryption.Enabled {
		blob, err = encodeSecureEnvelope(blob, opts)
		if err != nil {
			return err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func Load(path string) (*Recording, error) {
	return LoadWithOptions(path, LoadOptions{})
}

func LoadWithOptions(path string, opts LoadOptions) (*Recording, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isSecureEnvelope(b) {
		b, err = decodeSecureEnvelope(b, opts)
		if err != nil {
			return nil, err
		}
	}
	return Decode(b)
}

func InspectEnvelope(path string) (EnvelopeInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return EnvelopeInfo{}, err
	}
	return inspectEnvelopeBytes(b)
}

func isSecureEnvelope(b []byte) bool {
	return len(b) >= len(secureMagic) && string(b[:len(secureMagic)]) == secureMagic
}

func inspectEnvelopeBytes(b []byte) (EnvelopeInfo, error) {
	info := EnvelopeInfo{}
	if !isSecureEnvelope(b) {
		return info, nil
	}
	if len(b) < secureHeaderSize {
		return info, ErrInvalidSecureFile
	}
	version := binary.LittleEndian.Uint16(b[len(secureMagic) : len(secureMagic)+2])
	if version != secureVersionV1 {
		return info, fmt.Errorf("%w: secure envelope version %d", ErrUnsupportedVer, version)
	}
	flags := binary.LittleEndian.Uint16(b[len(secureMagic)+2 : len(secureMagic)+4])
	info.Wrapped = true
	info.Compressed = flags&secureFlagComp != 0
	info.Encrypted = flags&secureFlagEnc != 0
	info.EnvelopeVer = version
	return info, nil
}

func sealer(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func encodeSecureEnvelope(payload []byte, opts SaveOptions) ([]byte, error) {
	flags := uint16(0)
	if opts.Compression {
		flags |= secureFlagComp
	}
	if opts.Encryption.Enabled {
		flags |= secureFlagEnc
	}

	salt := make([]byte, secureSaltSize)
	nonce := make([]byte, secureNonceSize)
	if opts.Encryption.Enabled {
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		gcm, err := sealer(opts.Encryption.Password, salt)
		if err != nil {
			return nil, err
		}
		payload = gcm.Seal(nil, nonce, payload, nil)
	}

	out := make([]byte, 0, secureHeaderSize+len(payload))
	out = append(out, secureMagic...)
	out = binary.LittleEndian.AppendUint16(out, secureVersionV1)
	out = binary.LittleEndian.AppendUint16(out, flags)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(payload)))
	out = append(out, payload...)
	return out, nil
}

func decodeSecureEnvelope(b []byte, opts LoadOptions) ([]byte, error) {
	info, err := inspectEnvelopeBytes(b)
	if err != nil {
		return nil, err
	}
	if !info.Wrapped {
		return nil, ErrInvalidSecureFile
	}
	off := len(secureMagic) + 4
	salt := append([]byte(nil), b[off:off+secureSaltSize]...)
	off += secureSaltSize
	nonce := append([]byte(nil), b[off:off+secureNonceSize]...)
	off += secureNonceSize
	payloadLen := binary.LittleEndian.Uint64(b[off:])
	if uint64(len(b)-secureHeaderSize) != payloadLen {
		return nil, ErrInvalidSecureFile
	}
	payload := append([]byte(nil), b[secureHeaderSize:]...)

	if info.Encrypted {
		if strings.TrimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := sealer(opts.Password, salt)
		if err != nil {
			return nil, err
		}
		payload, err = gcm.Open(nil, nonce, payload, nil)
		if err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if info.Compressed {
		payload, err = decompressBytes(payload)
		if err != nil {
			return nil, err
		}
	}
	return payload, nil
}

func compressBytes(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressBytes(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
