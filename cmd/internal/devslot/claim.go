package devslot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/cdkctx"
	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
)

const claimFileName = "twapp.claim"

// ClaimFile records which slot this checkout holds and the token
// proving ownership. It lives next to cdk.json and is gitignored.
type ClaimFile struct {
	Slot  string `json:"slot"`
	Token string `json:"token"`
}

// EnsureClaim returns the checkout's existing claim, refreshing its
// last_used timestamp, or claims the first free slot and records it.
func EnsureClaim(ctx context.Context, dir, profile string) (*ClaimFile, error) {
	claim, err := ReadClaimFile(dir)
	if err != nil && !errors.Is(err, ErrNoClaim) {
		return nil, err
	}
	if claim != nil {
		TouchClaim(ctx, dir, profile, claim)
		return claim, nil
	}

	cctx, err := cdkctx.Load(dir)
	if err != nil {
		return nil, err
	}

	slots := cctx.DevSlots()
	if len(slots) == 0 {
		return nil, errors.New("no Dev* deployments defined in cdk.context.json")
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	accountID, err := AccountID(ctx, profile)
	if err != nil {
		return nil, err
	}

	store := NewStore(cctx.BootstrapBucket(accountID), cctx.PrimaryRegion, profile)
	label := DefaultLabel(ctx)

	slot, err := ClaimFirstAvailable(ctx, store, slots, token, label)
	if err != nil {
		return nil, err
	}

	claim = &ClaimFile{Slot: slot, Token: token}
	if err := WriteClaimFile(dir, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// TouchClaim is best effort. A failed touch never blocks the deploy the
// claim is being used for.
func TouchClaim(ctx context.Context, dir, profile string, claim *ClaimFile) {
	cctx, err := cdkctx.Load(dir)
	if err != nil {
		return
	}
	accountID, err := AccountID(ctx, profile)
	if err != nil {
		return
	}
	store := NewStore(cctx.BootstrapBucket(accountID), cctx.PrimaryRegion, profile)
	_ = store.Touch(ctx, claim.Slot, claim.Token)
}

// Claimer is what ClaimFirstAvailable needs from a Store.
type Claimer interface {
	Claim(ctx context.Context, slot, token, label string) error
}

// ClaimFirstAvailable tries slots in order and returns the first one
// claimed. Taken slots are skipped; any other failure aborts the scan.
func ClaimFirstAvailable(
	ctx context.Context, store Claimer, slots []string, token, label string,
) (string, error) {
	if len(slots) == 0 {
		return "", errors.New("no dev slots defined in cdk.context.json")
	}

	for _, slot := range slots {
		err := store.Claim(ctx, slot, token, label)
		if err == nil {
			return slot, nil
		}
		if !errors.Is(err, ErrSlotTaken) {
			return "", err
		}
	}
	return "", errors.Mark(
		errors.Newf("no free dev slots available: tried %s",
			strings.Join(slots, ", ")),
		ErrNoFreeSlots,
	)
}

func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generating token")
	}
	return hex.EncodeToString(b), nil
}

// DefaultLabel identifies the claim holder in slot listings as
// user@host, falling back through git config and $USER.
func DefaultLabel(ctx context.Context) string {
	user := runGit(ctx, "config", "user.name")
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		user = "unknown"
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	return user + "@" + host
}

func ClaimFilePath(projectRoot string) string {
	return filepath.Join(projectRoot, claimFileName)
}

func ReadClaimFile(projectRoot string) (*ClaimFile, error) {
	path := ClaimFilePath(projectRoot)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(
				errors.New("no active claim; run 'twapp infra slots claim' first"),
				ErrNoClaim,
			)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var claim ClaimFile
	if err := json.Unmarshal(data, &claim); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &claim, nil
}

func WriteClaimFile(projectRoot string, claim *ClaimFile) error {
	data, err := json.MarshalIndent(claim, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling claim file")
	}
	data = append(data, '\n')

	path := ClaimFilePath(projectRoot)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func RemoveClaimFile(projectRoot string) error {
	path := ClaimFilePath(projectRoot)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", path)
	}
	return nil
}

func AccountID(ctx context.Context, profile string) (string, error) {
	args := []string{
		"sts", "get-caller-identity",
		"--query", "Account",
		"--output", "text",
	}
	if profile != "" {
		args = append(args, "--profile", profile)
	}
	out, err := cmdexec.Output(ctx, "/", "aws", args...)
	if err != nil {
		return "", errors.Wrap(err, "getting AWS account ID")
	}
	return strings.TrimSpace(out), nil
}

func runGit(ctx context.Context, args ...string) string {
	out, err := exec.CommandContext(ctx, "git", args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
