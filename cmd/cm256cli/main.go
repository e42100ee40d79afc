// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command cm256cli is a demonstration driver for the cm256 erasure coder. Its
// encode subcommand splits a file into shards and writes the original and
// recovery shard files; its decode subcommand reads whichever k shard files
// are present and reconstructs the file. It does not delete shards itself
// and does not compare the output with the input.
// It replaces the teacher library's stand-alone demo driver with an
// equivalent exercised from this repo's own encoder/decoder.
package main

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"github.com/tjfoc/gmsm/sm4"
	"github.com/urfave/cli"
	"golang.org/x/crypto/pbkdf2"

	"github.com/xtaci/cm256go"
)

// SALT is used for pbkdf2 key expansion of the optional --passphrase, the
// same pattern client/main.go uses to derive its session key.
const SALT = "cm256go"

const metaFile = "cm256.meta"

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	app := cli.NewApp()
	app.Name = "cm256cli"
	app.Usage = "split a file into erasure-coded shards and reconstruct it"
	app.Version = VERSION
	app.Commands = []cli.Command{
		{
			Name:      "encode",
			Usage:     "split a file into k original and m recovery shards",
			ArgsUsage: "INPUT OUTPUT_DIR",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "k", Value: 4, Usage: "number of original shards"},
				cli.IntFlag{Name: "m", Value: 2, Usage: "number of recovery shards"},
				cli.BoolFlag{Name: "compress", Usage: "snappy-compress before splitting"},
				cli.StringFlag{Name: "passphrase", Usage: "SM4-CTR encrypt before splitting, derived via pbkdf2"},
			},
			Action: runEncode,
		},
		{
			Name:      "decode",
			Usage:     "reconstruct a file from a directory of shards, some possibly erased",
			ArgsUsage: "SHARD_DIR OUTPUT",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "compress", Usage: "the input was snappy-compressed before splitting"},
				cli.StringFlag{Name: "passphrase", Usage: "the input was SM4-CTR encrypted before splitting"},
			},
			Action: runDecode,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%+v", err)
	}
}

// shardMeta records what's needed to decode a directory of shards back into
// a file: the encoder parameters and the length of the (possibly
// compressed/encrypted) payload before it was split.
type shardMeta struct {
	k, m, blockBytes, payloadLen int
}

func runEncode(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: cm256cli encode [flags] INPUT OUTPUT_DIR")
	}
	input, outDir := c.Args().Get(0), c.Args().Get(1)
	k, m := c.Int("k"), c.Int("m")

	data, err := ioutil.ReadFile(input)
	if err != nil {
		return errors.Wrapf(err, "reading %s", input)
	}

	if c.String("passphrase") != "" {
		data, err = sm4Seal(data, []byte(c.String("passphrase")))
		if err != nil {
			return errors.Wrap(err, "encrypting input")
		}
	}
	if c.Bool("compress") {
		data = snappy.Encode(nil, data)
	}

	if err := cm256.Init(cm256.Version); err != nil {
		return errors.Wrap(err, "cm256 init")
	}

	shards, blockBytes := cm256.Split(data, k)
	params := cm256.EncoderParams{BlockBytes: blockBytes, OriginalCount: k, RecoveryCount: m}

	originals := make([]cm256.Block, k)
	for i, s := range shards {
		originals[i] = cm256.Block{Buffer: s, Index: cm256.GetOriginalBlockIndex(params, i)}
	}

	recovery := make([]byte, m*blockBytes)
	if err := cm256.Encode(params, originals, recovery); err != nil {
		return errors.Wrap(err, "cm256 encode")
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrapf(err, "creating %s", outDir)
	}
	for i, s := range shards {
		if err := writeShard(outDir, i, s); err != nil {
			return err
		}
	}
	for i := 0; i < m; i++ {
		idx := cm256.GetRecoveryBlockIndex(params, i)
		if err := writeShard(outDir, idx, recovery[i*blockBytes:(i+1)*blockBytes]); err != nil {
			return err
		}
	}
	if err := writeMeta(outDir, shardMeta{k: k, m: m, blockBytes: blockBytes, payloadLen: len(data)}); err != nil {
		return err
	}

	log.Println("original length:", len(data))
	log.Println("k:", k, "m:", m, "block bytes:", blockBytes)
	log.Println("wrote", k+m, "shards to", outDir)
	return nil
}

func runDecode(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: cm256cli decode [flags] SHARD_DIR OUTPUT")
	}
	shardDir, output := c.Args().Get(0), c.Args().Get(1)

	meta, err := readMeta(shardDir)
	if err != nil {
		return err
	}
	params := cm256.EncoderParams{BlockBytes: meta.blockBytes, OriginalCount: meta.k, RecoveryCount: meta.m}

	blocks, err := readAvailableBlocks(shardDir, meta)
	if err != nil {
		return err
	}

	if err := cm256.Init(cm256.Version); err != nil {
		return errors.Wrap(err, "cm256 init")
	}
	if err := cm256.Decode(params, blocks); err != nil {
		return errors.Wrap(err, "cm256 decode")
	}

	originals := make([][]byte, meta.k)
	for _, b := range blocks {
		originals[b.Index] = b.Buffer
	}
	data := cm256.Join(originals, meta.payloadLen)

	if c.Bool("compress") {
		var derr error
		data, derr = snappy.Decode(nil, data)
		if derr != nil {
			return errors.Wrap(derr, "decompressing output")
		}
	}
	if c.String("passphrase") != "" {
		var derr error
		data, derr = sm4Open(data, []byte(c.String("passphrase")))
		if derr != nil {
			return errors.Wrap(derr, "decrypting output")
		}
	}

	if err := ioutil.WriteFile(output, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", output)
	}
	log.Println("reconstructed", len(data), "bytes to", output)
	return nil
}

// readAvailableBlocks reads whichever of the k+m shard files are present on
// disk (some original shards may be missing; their recovery counterparts
// stand in). It stops collecting once it has meta.k blocks, matching the
// decoder's expectation of exactly k inputs.
func readAvailableBlocks(dir string, meta shardMeta) ([]cm256.Block, error) {
	var blocks []cm256.Block
	for idx := 0; idx < meta.k+meta.m && len(blocks) < meta.k; idx++ {
		path := shardPath(dir, idx)
		data, err := ioutil.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		blocks = append(blocks, cm256.Block{Buffer: data, Index: idx})
	}
	if len(blocks) < meta.k {
		return nil, errors.Errorf("only %d of %d required shards are available", len(blocks), meta.k)
	}
	return blocks, nil
}

// sm4Seal encrypts data with SM4-CTR under a key derived from passphrase,
// prefixing the output with the random IV, grounded on the teacher's
// cipher-by-name dispatch in crypt.go where "sm4" is one of the supported
// methods.
func sm4Seal(data, passphrase []byte) ([]byte, error) {
	block, err := sm4.NewCipher(deriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	iv := make([]byte, block.BlockSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	out := make([]byte, len(iv)+len(data))
	copy(out, iv)
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(out[len(iv):], data)
	return out, nil
}

func sm4Open(data, passphrase []byte) ([]byte, error) {
	block, err := sm4.NewCipher(deriveKey(passphrase))
	if err != nil {
		return nil, err
	}
	ivLen := block.BlockSize()
	if len(data) < ivLen {
		return nil, errors.New("ciphertext shorter than IV")
	}
	iv, ct := data[:ivLen], data[ivLen:]
	out := make([]byte, len(ct))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(out, ct)
	return out, nil
}

func deriveKey(passphrase []byte) []byte {
	return pbkdf2.Key(passphrase, []byte(SALT), 4096, 16, sha256.New)
}

func writeShard(dir string, index int, data []byte) error {
	return ioutil.WriteFile(shardPath(dir, index), data, 0644)
}

func shardPath(dir string, index int) string {
	return filepath.Join(dir, "shard."+strconv.Itoa(index))
}

func writeMeta(dir string, m shardMeta) error {
	content := fmt.Sprintf("%d %d %d %d\n", m.k, m.m, m.blockBytes, m.payloadLen)
	return ioutil.WriteFile(filepath.Join(dir, metaFile), []byte(content), 0644)
}

func readMeta(dir string) (shardMeta, error) {
	var m shardMeta
	raw, err := ioutil.ReadFile(filepath.Join(dir, metaFile))
	if err != nil {
		return m, errors.Wrap(err, "reading shard metadata")
	}
	if _, err := fmt.Sscanf(string(raw), "%d %d %d %d", &m.k, &m.m, &m.blockBytes, &m.payloadLen); err != nil {
		return m, errors.Wrap(err, "parsing shard metadata")
	}
	return m, nil
}
