// Copyright 2025 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package key

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
	"golang.org/x/sys/unix"

	"github.com/sigstore/validator/pkg/hashing"
	"github.com/sigstore/validator/pkg/logging"
	"github.com/sigstore/validator/pkg/sigerr"
	"github.com/sigstore/validator/pkg/signature"
	"github.com/sigstore/validator/pkg/signing"
	"github.com/sigstore/validator/pkg/tree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writePublicKey(t *testing.T, dir, name string, pub crypto.PublicKey) string {
	t.Helper()
	data, err := cryptoutils.MarshalPublicKeyToPEM(pub)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// signAs writes the artifact for path as if it was signed with logical
// path relPath.
func signAs(t *testing.T, s *signing.Signer, path, relPath string) {
	t.Helper()
	content, err := hashing.LoadContent(path, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	artifact, err := s.Sign(content.Type, relPath, content.Data)
	if err != nil {
		t.Fatal(err)
	}
	if err := signature.Write(signature.Path(path), artifact); err != nil {
		t.Fatal(err)
	}
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, *signing.Signer) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	s, err := signing.NewSigner(priv)
	if err != nil {
		t.Fatal(err)
	}
	return priv, s
}

func TestKeyVerifierConfigValidate(t *testing.T) {
	dir := t.TempDir()
	priv, _ := newKey(t)
	pubFile := writePublicKey(t, dir, "a.pub", priv.Public())

	if err := (KeyVerifierConfig{}).Validate(); err == nil {
		t.Error("expected an error without any key source")
	}
	if err := (KeyVerifierConfig{PublicKeys: []string{filepath.Join(dir, "nope.pub")}}).Validate(); err == nil {
		t.Error("expected an error for a missing key file")
	}
	if err := (KeyVerifierConfig{PublicKeys: []string{pubFile}}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (KeyVerifierConfig{KeyDirs: []string{filepath.Join(dir, "missing")}}).Validate(); err != nil {
		t.Errorf("a missing key dir should be accepted, got %v", err)
	}
}

func TestVerifyTree(t *testing.T) {
	root := t.TempDir()
	keyDir := t.TempDir()
	priv, s := newKey(t)
	other, _ := newKey(t)
	writePublicKey(t, keyDir, "other.pub", other.Public())
	writePublicKey(t, keyDir, "mine.pub", priv.Public())

	good := filepath.Join(root, "good")
	writeFile(t, good, "good")
	signAs(t, s, good, "good")

	nested := filepath.Join(root, "lib", "nested")
	writeFile(t, nested, "nested")
	signAs(t, s, nested, "lib/nested")

	link := filepath.Join(root, "link")
	if err := os.Symlink("../etc/passwd", link); err != nil {
		t.Fatal(err)
	}
	signAs(t, s, link, "link")

	kv, err := NewKeyVerifier(KeyVerifierOptions{
		KeyVerifierConfig: KeyVerifierConfig{KeyDirs: []string{keyDir}},
		Options:           tree.Options{Recursive: true},
		Paths:             []string{root},
		Logger:            logging.Discard(),
	})
	if err != nil {
		t.Fatalf("NewKeyVerifier() error = %v", err)
	}

	res, err := kv.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify() error = %v (failures %v)", err, res.Failures)
	}
	if res.Visited != 3 {
		t.Errorf("Visited = %d, want 3", res.Visited)
	}
}

// One valid file, one corrupted artifact and one unsupported node: the
// walk fails overall but reports each node.
func TestVerifyTreeAggregates(t *testing.T) {
	root := t.TempDir()
	priv, s := newKey(t)
	pubFile := writePublicKey(t, t.TempDir(), "key.pub", priv.Public())

	valid := filepath.Join(root, "a-valid")
	writeFile(t, valid, "ok")
	signAs(t, s, valid, "a-valid")

	corrupt := filepath.Join(root, "b-corrupt")
	writeFile(t, corrupt, "bad")
	signAs(t, s, corrupt, "b-corrupt")
	artifact, err := os.ReadFile(signature.Path(corrupt))
	if err != nil {
		t.Fatal(err)
	}
	artifact[len(artifact)-1] ^= 0xff
	if err := os.WriteFile(signature.Path(corrupt), artifact, 0644); err != nil {
		t.Fatal(err)
	}

	if err := unix.Mkfifo(filepath.Join(root, "c-fifo"), 0644); err != nil {
		t.Fatal(err)
	}

	kv, err := NewKeyVerifier(KeyVerifierOptions{
		KeyVerifierConfig: KeyVerifierConfig{PublicKeys: []string{pubFile}},
		Options:           tree.Options{Recursive: true},
		Paths:             []string{root},
		Logger:            logging.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := kv.Verify(context.Background())
	if err == nil {
		t.Fatal("Verify() succeeded with a corrupted artifact")
	}
	if res.Visited != 2 {
		t.Errorf("Visited = %d, want 2", res.Visited)
	}
	if len(res.Failures) != 2 {
		t.Fatalf("failures = %v, want 2", res.Failures)
	}
	if res.Failures[0].Path != corrupt {
		t.Errorf("first failure = %s, want %s", res.Failures[0].Path, corrupt)
	}
	if !sigerr.Is(res.Failures[0].Err, sigerr.KindInvalidSignature) && !sigerr.Is(res.Failures[0].Err, sigerr.KindCrypto) {
		t.Errorf("corrupt failure kind = %v", sigerr.KindOf(res.Failures[0].Err))
	}
	if !sigerr.Is(res.Failures[1].Err, sigerr.KindUnsupportedType) {
		t.Errorf("fifo failure kind = %v", sigerr.KindOf(res.Failures[1].Err))
	}
	if res.Aborted {
		t.Error("a signature mismatch must not abort the walk")
	}
}

func TestVerifyMissingSignature(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "data")
	writeFile(t, file, "x")
	priv, _ := newKey(t)
	pubFile := writePublicKey(t, t.TempDir(), "key.pub", priv.Public())

	kv, err := NewKeyVerifier(KeyVerifierOptions{
		KeyVerifierConfig: KeyVerifierConfig{PublicKeys: []string{pubFile}},
		Paths:             []string{file},
		Logger:            logging.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := kv.Verify(context.Background())
	if err == nil || len(res.Failures) != 1 || !sigerr.Is(res.Failures[0].Err, sigerr.KindMissingSignature) {
		t.Errorf("Verify() = %+v, %v; want one MissingSignature failure", res, err)
	}
}

func TestVerifyRelocatedFile(t *testing.T) {
	root := t.TempDir()
	priv, s := newKey(t)
	pubFile := writePublicKey(t, t.TempDir(), "key.pub", priv.Public())

	file := filepath.Join(root, "sbin", "tool")
	writeFile(t, file, "x")
	signAs(t, s, file, "bin/tool")

	kv, err := NewKeyVerifier(KeyVerifierOptions{
		KeyVerifierConfig: KeyVerifierConfig{PublicKeys: []string{pubFile}},
		Options:           tree.Options{Recursive: true},
		Paths:             []string{root},
		Logger:            logging.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Verify(context.Background()); err == nil {
		t.Error("a file moved from bin/ to sbin/ must not validate")
	}

	kv.opts.PathPrefix = "/"
	if _, err := kv.Verify(context.Background()); err == nil {
		t.Error("prefix must not make a relocated file validate")
	}
}

func TestVerifyNotRecursive(t *testing.T) {
	priv, _ := newKey(t)
	pubFile := writePublicKey(t, t.TempDir(), "key.pub", priv.Public())

	kv, err := NewKeyVerifier(KeyVerifierOptions{
		KeyVerifierConfig: KeyVerifierConfig{PublicKeys: []string{pubFile}},
		Paths:             []string{t.TempDir()},
		Logger:            logging.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Verify(context.Background()); !errors.Is(err, tree.ErrNotRecursive) {
		t.Errorf("Verify() error = %v, want ErrNotRecursive", err)
	}
}

func TestNewKeyVerifierBadKeyDir(t *testing.T) {
	keyDir := t.TempDir()
	writeFile(t, filepath.Join(keyDir, "broken.pub"), "garbage")

	_, err := NewKeyVerifier(KeyVerifierOptions{
		KeyVerifierConfig: KeyVerifierConfig{KeyDirs: []string{keyDir}},
		Paths:             []string{keyDir},
	})
	if !sigerr.Is(err, sigerr.KindKeyLoad) {
		t.Errorf("NewKeyVerifier() error = %v, want KeyLoadError", err)
	}
}
