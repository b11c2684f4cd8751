// Package devslot coordinates shared Dev* deployments between
// developers. A claim is an object in the CDK bootstrap staging bucket
// written with a conditional put, so S3 itself arbitrates races without
// any extra locking infrastructure. The bootstrap template carries a
// lifecycle rule that expires stale claims.
package devslot

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tidewaterhq/twapp/cmd/internal/cmdexec"
)

var (
	ErrSlotTaken      = errors.New("slot is already claimed")
	ErrSlotNotClaimed = errors.New("slot is not claimed")
	ErrNoFreeSlots    = errors.New("no free dev slots available")
	ErrTokenMismatch  = errors.New("token does not match")
	ErrNoClaim        = errors.New("no active claim")
)

// keyPrefix must match the prefix of the expiration lifecycle rule
// cfnpatch adds to the staging bucket.
const keyPrefix = "dev-slots/"

// LockInfo is the claim object's body. Timestamps are RFC 3339 so the
// status listing can show claim age without parsing heuristics.
type LockInfo struct {
	Token     string `json:"token"`
	Label     string `json:"label"`
	ClaimedAt string `json:"claimed_at"`
	LastUsed  string `json:"last_used"`
}

// Store reads and writes claim objects in one bucket and region.
type Store struct {
	Bucket  string
	Region  string
	Profile string
}

func NewStore(bucket, region, profile string) *Store {
	return &Store{Bucket: bucket, Region: region, Profile: profile}
}

// Claim writes the slot's lock object with If-None-Match so the put
// fails when any claim already exists. Losing the race returns
// ErrSlotTaken.
func (s *Store) Claim(ctx context.Context, slot, token, label string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	lock := LockInfo{
		Token:     token,
		Label:     label,
		ClaimedAt: now,
		LastUsed:  now,
	}
	body, err := json.Marshal(lock)
	if err != nil {
		return errors.Wrap(err, "marshaling lock info")
	}

	out, err := s.putObject(ctx, lockKey(slot), body, true)
	if err != nil {
		if strings.Contains(out, "PreconditionFailed") ||
			strings.Contains(out, "At least one of the pre-conditions") {
			return errors.Mark(
				errors.Newf("slot %s is already claimed", slot),
				ErrSlotTaken,
			)
		}
		return errors.Newf("claiming slot %s: %s\n%s", slot, err, out)
	}
	return nil
}

// Release deletes the slot's lock, but only when the token matches the
// caller's claim. ForceRelease skips the token check.
func (s *Store) Release(ctx context.Context, slot, token string) error {
	lock, err := s.GetLock(ctx, slot)
	if err != nil {
		return err
	}
	if lock == nil {
		return errors.Mark(
			errors.Newf("slot %s is not claimed", slot),
			ErrSlotNotClaimed,
		)
	}
	if lock.Token != token {
		return errors.Mark(
			errors.Newf("slot %s is claimed by someone else", slot),
			ErrTokenMismatch,
		)
	}

	return s.deleteLock(ctx, slot)
}

func (s *Store) ForceRelease(ctx context.Context, slot string) error {
	lock, err := s.GetLock(ctx, slot)
	if err != nil {
		return err
	}
	if lock == nil {
		return errors.Mark(
			errors.Newf("slot %s is not claimed", slot),
			ErrSlotNotClaimed,
		)
	}

	return s.deleteLock(ctx, slot)
}

// Touch refreshes last_used so the lifecycle rule only expires claims
// that are actually abandoned. A lost or reassigned claim is ignored.
func (s *Store) Touch(ctx context.Context, slot, token string) error {
	lock, err := s.GetLock(ctx, slot)
	if err != nil {
		return err
	}
	if lock == nil || lock.Token != token {
		return nil
	}

	lock.LastUsed = time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(lock)
	if err != nil {
		return errors.Wrap(err, "marshaling lock info")
	}

	out, err := s.putObject(ctx, lockKey(slot), body, false)
	if err != nil {
		return errors.Newf("touching slot %s: %s\n%s", slot, err, out)
	}
	return nil
}

// GetLock returns nil without error when the slot has no claim.
func (s *Store) GetLock(ctx context.Context, slot string) (*LockInfo, error) {
	tmpFile, err := os.CreateTemp("", "devslot-*.json")
	if err != nil {
		return nil, errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	args := append(s.commonArgs("get-object", lockKey(slot)), tmpPath)
	if _, err := cmdexec.Output(ctx, "/", "aws", args...); err != nil {
		return nil, nil //nolint:nilnil // nil means "not claimed"
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading lock file for slot %s", slot)
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrapf(err, "parsing lock for slot %s", slot)
	}
	return &info, nil
}

func (s *Store) ListAll(ctx context.Context, slots []string) (map[string]*LockInfo, error) {
	result := make(map[string]*LockInfo, len(slots))
	for _, slot := range slots {
		info, err := s.GetLock(ctx, slot)
		if err != nil {
			return nil, err
		}
		result[slot] = info
	}
	return result, nil
}

func (s *Store) deleteLock(ctx context.Context, slot string) error {
	args := s.commonArgs("delete-object", lockKey(slot))
	if _, err := cmdexec.Output(ctx, "/", "aws", args...); err != nil {
		return errors.Wrapf(err, "deleting lock for slot %s", slot)
	}
	return nil
}

func (s *Store) putObject(
	ctx context.Context, key string, body []byte, ifNoneMatch bool,
) (string, error) {
	tmpFile, err := os.CreateTemp("", "devslot-body-*.json")
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(body); err != nil {
		tmpFile.Close()
		return "", errors.Wrap(err, "writing temp file")
	}
	tmpFile.Close()

	args := append(s.commonArgs("put-object", key), "--body", tmpPath)
	if ifNoneMatch {
		args = append(args, "--if-none-match", "*")
	}

	out, err := cmdexec.Output(ctx, "/", "aws", args...)
	if err != nil {
		var cmdErr *cmdexec.Error
		if errors.As(err, &cmdErr) {
			return cmdErr.Stderr, err
		}
		return "", err
	}
	return out, nil
}

func (s *Store) commonArgs(operation, key string) []string {
	args := []string{
		"s3api", operation,
		"--bucket", s.Bucket,
		"--key", key,
		"--region", s.Region,
		"--no-cli-pager",
	}
	if s.Profile != "" {
		args = append(args, "--profile", s.Profile)
	}
	return args
}

func lockKey(slot string) string {
	return keyPrefix + slot + ".lock"
}
