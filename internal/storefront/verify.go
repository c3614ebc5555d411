package storefront

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// VerifyState tracks phone verification progress for a pending submission.
type VerifyState int

const (
	VerifyUnverified VerifyState = iota
	VerifyCodeSent
	VerifyVerified
	VerifySubmitted
)

func (s VerifyState) String() string {
	switch s {
	case VerifyCodeSent:
		return "code_sent"
	case VerifyVerified:
		return "verified"
	case VerifySubmitted:
		return "submitted"
	default:
		return "unverified"
	}
}

var (
	ErrNoCodePending  = errors.New("solicita un código primero")
	ErrAlreadyDone    = errors.New("la solicitud ya fue enviada")
	ErrNothingPending = errors.New("no hay solicitud pendiente")
)

// VerifySource is the API surface of the verification endpoints. *Client
// satisfies it.
type VerifySource interface {
	RequestPhoneCode(ctx context.Context, phone string) (*PhoneCodeReply, error)
	ValidateCode(ctx context.Context, phone, code string) error
}

// Verification gates one deferred submission behind phone ownership proof.
// Begin sends the code; SubmitCode validates it; once the phone is verified
// the held submission fires exactly once and the machine ends in
// VerifySubmitted. Already-verified phones skip straight through.
type Verification struct {
	mu     sync.Mutex
	src    VerifySource
	phone  string
	submit func(ctx context.Context) error
	state  VerifyState

	// MockCode echoes the server's mock delivery code for display in dev.
	MockCode string
}

// NewVerification holds submit until the phone is verified.
func NewVerification(src VerifySource, phone string, submit func(ctx context.Context) error) *Verification {
	return &Verification{src: src, phone: phone, submit: submit, state: VerifyUnverified}
}

func (v *Verification) State() VerifyState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Verification) Phone() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phone
}

// Begin requests a verification code. If the server reports the phone as
// already verified the code step is skipped and the submission fires
// immediately.
func (v *Verification) Begin(ctx context.Context) error {
	v.mu.Lock()
	if v.state == VerifySubmitted {
		v.mu.Unlock()
		return errors.WithStack(ErrAlreadyDone)
	}
	phone := v.phone
	v.mu.Unlock()

	reply, err := v.src.RequestPhoneCode(ctx, phone)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.MockCode = reply.MockCode
	if reply.AlreadyVerified {
		v.state = VerifyVerified
		v.mu.Unlock()
		return v.finish(ctx)
	}
	v.state = VerifyCodeSent
	v.mu.Unlock()
	return nil
}

// SubmitCode validates the entered code. A wrong code leaves the machine in
// VerifyCodeSent so the user can retry; a correct one verifies the phone
// and fires the held submission.
func (v *Verification) SubmitCode(ctx context.Context, code string) error {
	v.mu.Lock()
	state := v.state
	phone := v.phone
	v.mu.Unlock()

	switch state {
	case VerifyUnverified:
		return errors.WithStack(ErrNoCodePending)
	case VerifySubmitted:
		return errors.WithStack(ErrAlreadyDone)
	case VerifyVerified:
		return v.finish(ctx)
	}

	if err := v.src.ValidateCode(ctx, phone, code); err != nil {
		// stays in VerifyCodeSent
		return err
	}

	v.mu.Lock()
	v.state = VerifyVerified
	v.mu.Unlock()
	return v.finish(ctx)
}

// finish fires the held submission once. A failed submission leaves the
// machine verified so the caller can retry without another code.
func (v *Verification) finish(ctx context.Context) error {
	v.mu.Lock()
	state := v.state
	submit := v.submit
	v.mu.Unlock()
	if state == VerifySubmitted {
		return errors.WithStack(ErrAlreadyDone)
	}
	if state != VerifyVerified {
		return errors.WithStack(ErrNothingPending)
	}

	if submit != nil {
		if err := submit(ctx); err != nil {
			return err
		}
	}

	v.mu.Lock()
	v.state = VerifySubmitted
	v.mu.Unlock()
	return nil
}
