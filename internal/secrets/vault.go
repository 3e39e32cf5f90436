package secrets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"
)

// vaultHeader starts every file encrypted by ansible-vault.
const vaultHeader = "$ANSIBLE_VAULT"

// Decrypter turns an encrypted vault file into plaintext YAML.
type Decrypter interface {
	Decrypt(ctx context.Context, path string) ([]byte, error)
}

// AnsibleVault shells out to `ansible-vault view`. The vault password is
// taken from the usual ansible sources (ANSIBLE_VAULT_PASSWORD_FILE, ...).
type AnsibleVault struct {
	Binary string
}

func (a AnsibleVault) Decrypt(ctx context.Context, path string) ([]byte, error) {
	bin := a.Binary
	if bin == "" {
		bin = "ansible-vault"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "view", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ansible-vault view failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Reader loads a vault file, decrypting it when needed. Plaintext files
// (development setups) are read as is.
type Reader struct {
	decrypter Decrypter
}

func NewReader(d Decrypter) *Reader {
	if d == nil {
		d = AnsibleVault{}
	}
	return &Reader{decrypter: d}
}

// Read returns the parsed vault contents.
func (r *Reader) Read(ctx context.Context, path string) (Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	if IsEncrypted(data) {
		data, err = r.decrypter.Decrypt(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt vault: %w", err)
		}
	}

	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse vault yaml: %w", err)
	}
	if s == nil {
		s = Secrets{}
	}
	return s, nil
}

// IsEncrypted reports whether data carries the ansible-vault header.
func IsEncrypted(data []byte) bool {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	return bytes.HasPrefix(bytes.TrimSpace(line), []byte(vaultHeader))
}
