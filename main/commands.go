package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/rawbytedev/bytepack"
	"github.com/rawbytedev/bytepack/pkg/checked"
	"github.com/rawbytedev/bytepack/pkg/zigzag"
)

const (
	modeUnsigned = "unsigned"
	modeSigned   = "signed"
	modeZigzag   = "zigzag"
)

// EncodeCmd packs each value and prints one hex line per value.
type EncodeCmd struct {
	Mode   string   `short:"m" enum:"unsigned,signed,zigzag" default:"unsigned" env:"BYTEPACK_MODE" help:"Encoding for the values (${enum})."`
	Values []string `arg:"" name:"value" help:"Integers in decimal or with a 0x, 0o or 0b prefix."`
}

func (c *EncodeCmd) Run(logger *slog.Logger, out io.Writer) error {
	var buf bytes.Buffer
	for i, s := range c.Values {
		x, err := parseInt(s)
		if err != nil {
			return err
		}
		buf.Reset()
		n, err := encode(&buf, c.Mode, x)
		if err != nil {
			return errors.Wrapf(err, "value %d (%s)", i, s)
		}
		logger.Debug("encoded", "value", x, "mode", c.Mode, "bytes", n)
		fmt.Fprintf(out, "% x\n", buf.Bytes())
	}
	logger.Info("encode done", "count", len(c.Values))
	return nil
}

func encode(w io.ByteWriter, mode string, x *big.Int) (int, error) {
	switch mode {
	case modeSigned:
		return bytepack.PutBigInt(w, x)
	case modeZigzag:
		return bytepack.PutBigUint(w, zigzag.EncodeBig(x))
	default:
		return bytepack.PutBigUint(w, x)
	}
}

// DecodeCmd reads every varint from the concatenated hex arguments.
type DecodeCmd struct {
	Mode     string   `short:"m" enum:"unsigned,signed,zigzag" default:"unsigned" env:"BYTEPACK_MODE" help:"Encoding of the input (${enum})."`
	MaxBytes int      `name:"max-bytes" default:"0" env:"BYTEPACK_MAX_BYTES" help:"Reject values longer than this many bytes (0 for no limit)."`
	Hex      []string `arg:"" name:"hex" help:"Hex input; spaces and colons are ignored."`
}

func (c *DecodeCmd) Run(logger *slog.Logger, out io.Writer) error {
	data, err := parseHex(c.Hex)
	if err != nil {
		return err
	}
	rd := bytes.NewReader(data)
	var src io.ByteReader = rd
	var lr *checked.LimitReader
	if c.MaxBytes > 0 {
		lr = checked.NewLimitReader(rd, c.MaxBytes)
		src = lr
	}

	count := 0
	for rd.Len() > 0 {
		if lr != nil {
			lr.Reset()
		}
		start := len(data) - rd.Len()
		x, err := decode(src, c.Mode)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return errors.Wrapf(err, "value %d at offset %d", count, start)
		}
		logger.Debug("decoded", "value", x, "mode", c.Mode, "offset", start, "bytes", len(data)-rd.Len()-start)
		fmt.Fprintln(out, x)
		count++
	}
	logger.Info("decode done", "count", count, "bytes", len(data))
	return nil
}

func decode(r io.ByteReader, mode string) (*big.Int, error) {
	switch mode {
	case modeSigned:
		return bytepack.GetBigInt(r)
	case modeZigzag:
		u, err := bytepack.GetBigUint(r)
		if err != nil {
			return nil, err
		}
		return zigzag.DecodeBig(u), nil
	default:
		return bytepack.GetBigUint(r)
	}
}

// ZigzagCmd maps values without packing them.
type ZigzagCmd struct {
	Decode bool     `short:"d" help:"Map unsigned values back to signed ones."`
	Values []string `arg:"" name:"value" help:"Integers in decimal or with a 0x, 0o or 0b prefix."`
}

func (c *ZigzagCmd) Run(logger *slog.Logger, out io.Writer) error {
	for _, s := range c.Values {
		x, err := parseInt(s)
		if err != nil {
			return err
		}
		if c.Decode {
			if x.Sign() < 0 {
				return errors.Wrapf(bytepack.ErrNegative, "zigzag decode %s", s)
			}
			fmt.Fprintln(out, zigzag.DecodeBig(x))
			continue
		}
		fmt.Fprintln(out, zigzag.EncodeBig(x))
	}
	logger.Info("zigzag done", "count", len(c.Values), "decode", c.Decode)
	return nil
}

func parseInt(s string) (*big.Int, error) {
	x, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 0)
	if !ok {
		return nil, errors.Errorf("not an integer: %q", s)
	}
	return x, nil
}

func parseHex(args []string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(strings.Join(args, ""))
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.Wrap(err, "bad hex input")
	}
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	return data, nil
}
