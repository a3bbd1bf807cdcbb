package blindrot

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/torus/core/ggsw"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils"
	"github.com/tuneinsight/torus/utils/scratch"
	"github.com/tuneinsight/torus/utils/structs"
)

// Evaluator is a struct that stores the necessary data to evaluate blind rotations
// and bootstrappings with a given Fourier bootstrapping key.
//
// An Evaluator owns a scratch arena and must not be used concurrently: use
// [Evaluator.ShallowCopy] to obtain an evaluator per goroutine, or [Evaluator.BlindRotateBatch].
type Evaluator[T ring.Torus] struct {
	params tfhe.Parameters
	fbsk   *FourierBootstrapKey
	fft    *ring.FFT

	req  scratch.Requirement
	buf  *scratch.Buffers
	pool structs.BufferPool[*scratch.Buffers]

	msed *tfhe.SwitchedLWECiphertext
	acc  *tfhe.GLWECiphertext[T]

	logger zerolog.Logger
}

// NewEvaluator instantiates a new [Evaluator].
// It returns an error if the parameters do not fit T or if fbsk does not match the parameters.
func NewEvaluator[T ring.Torus](params tfhe.Parameters, fbsk *FourierBootstrapKey) (eval *Evaluator[T], err error) {

	if err = tfhe.CheckTorus[T](params); err != nil {
		return nil, fmt.Errorf("cannot NewEvaluator: %w", err)
	}

	if err = fbsk.CheckParameters(params); err != nil {
		return nil, fmt.Errorf("cannot NewEvaluator: %w", err)
	}

	fft, err := ring.NewFFT(params.PolynomialSize())
	if err != nil {
		return nil, fmt.Errorf("cannot NewEvaluator: %w", err)
	}

	req := BootstrapScratch[T](params.GLWEDimension(), params.PolynomialSize(), fft)

	eval = &Evaluator[T]{
		params: params,
		fbsk:   fbsk,
		fft:    fft,
		req:    req,
		pool: structs.NewSyncPool(func() *scratch.Buffers {
			return scratch.NewBuffersFor(req)
		}),
		logger: zerolog.Nop(),
	}

	eval.allocate()

	return
}

func (eval *Evaluator[T]) allocate() {
	eval.buf = scratch.NewBuffersFor(eval.req)
	eval.msed = tfhe.NewSwitchedLWECiphertext(eval.params.LWEDimension(), eval.params.BlindRotationLogModulus())
	eval.acc = tfhe.NewGLWECiphertext[T](eval.params.GLWEDimension(), eval.params.PolynomialSize())
}

// ShallowCopy creates a shallow copy of this Evaluator in which all the read-only data-structures are
// shared with the receiver and the temporary buffers are reallocated. The receiver and the returned
// Evaluator can be used concurrently.
func (eval *Evaluator[T]) ShallowCopy() *Evaluator[T] {
	cpy := *eval
	cpy.allocate()
	return &cpy
}

// WithLogger returns a shallow copy of the receiver, sharing its buffers, that logs the batch
// evaluations on logger.
func (eval *Evaluator[T]) WithLogger(logger zerolog.Logger) *Evaluator[T] {
	cpy := *eval
	cpy.logger = logger
	return &cpy
}

// Parameters returns the parameters of the evaluator.
func (eval *Evaluator[T]) Parameters() tfhe.Parameters {
	return eval.params
}

// FFT returns the FFT plan of the evaluator.
func (eval *Evaluator[T]) FFT() *ring.FFT {
	return eval.fft
}

// ExternalProduct evaluates out = ggsw * in. out and in can be the same ciphertext.
func (eval *Evaluator[T]) ExternalProduct(out *tfhe.GLWECiphertext[T], ggswCt *ggsw.FourierCiphertext, in *tfhe.GLWECiphertext[T]) error {
	return ggsw.ExternalProduct(out, ggswCt, in, eval.fft, eval.buf.Stack())
}

// BlindRotateAssign rotates acc by X^-phase, where phase is the phase of msed. See [BlindRotateAssign].
func (eval *Evaluator[T]) BlindRotateAssign(acc *tfhe.GLWECiphertext[T], msed *tfhe.SwitchedLWECiphertext) error {
	return BlindRotateAssign(acc, msed, eval.fbsk, eval.fft, eval.buf.Stack())
}

// BlindRotate switches ct to the modulus 2N and rotates acc by X^-phase, where phase
// is the phase of the switched ciphertext.
func (eval *Evaluator[T]) BlindRotate(acc *tfhe.GLWECiphertext[T], ct *tfhe.LWECiphertext[T]) error {
	return eval.blindRotate(acc, ct, eval.msed, eval.buf)
}

func (eval *Evaluator[T]) blindRotate(acc *tfhe.GLWECiphertext[T], ct *tfhe.LWECiphertext[T], msed *tfhe.SwitchedLWECiphertext, buf *scratch.Buffers) error {

	if err := tfhe.ModulusSwitchLWEAssign(ct, msed); err != nil {
		return fmt.Errorf("cannot BlindRotate: %w", err)
	}

	if err := BlindRotateAssign(acc, msed, eval.fbsk, eval.fft, buf.Stack()); err != nil {
		return fmt.Errorf("cannot BlindRotate: %w", err)
	}

	return nil
}

// Bootstrap evaluates the bootstrapping of ct with the test accumulator lut, which is left unchanged,
// and writes on out the constant coefficient of the rotated accumulator.
// out is an LWE ciphertext of dimension k*N under the GLWE secret key seen as an LWE key.
func (eval *Evaluator[T]) Bootstrap(ct *tfhe.LWECiphertext[T], lut *tfhe.GLWECiphertext[T], out *tfhe.LWECiphertext[T]) error {

	if err := lut.CheckShape(eval.params.GLWEDimension(), eval.params.PolynomialSize()); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	if out.LWEDimension() != eval.params.ExtractedLWEDimension() {
		return fmt.Errorf("cannot Bootstrap: %w", tfhe.ShapeMismatch("extracted LWE dimension", out.LWEDimension(), eval.params.ExtractedLWEDimension()))
	}

	eval.acc.Copy(lut)

	if err := eval.BlindRotate(eval.acc, ct); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	if err := eval.acc.SampleExtract(0, out); err != nil {
		return fmt.Errorf("cannot Bootstrap: %w", err)
	}

	return nil
}

// BootstrapNew evaluates the bootstrapping of ct with the test accumulator lut and returns the result
// on a new ciphertext. See [Evaluator.Bootstrap].
func (eval *Evaluator[T]) BootstrapNew(ct *tfhe.LWECiphertext[T], lut *tfhe.GLWECiphertext[T]) (out *tfhe.LWECiphertext[T], err error) {
	out = tfhe.NewLWECiphertext[T](eval.params.ExtractedLWEDimension())
	return out, eval.Bootstrap(ct, lut, out)
}

// BlindRotateBatch rotates each accs[i] by the phase of cts[i], spreading the items over
// the given number of workers (GOMAXPROCS if workers < 1).
//
// The workers share the bootstrapping key and the FFT plan of the evaluator and each of them
// borrows its own scratch arena from a pool, so the results are bitwise equal to the ones of
// [Evaluator.BlindRotate]. No new item is started once ctx is done or an item failed.
func (eval *Evaluator[T]) BlindRotateBatch(ctx context.Context, accs []*tfhe.GLWECiphertext[T], cts []*tfhe.LWECiphertext[T], workers int) error {

	if len(accs) != len(cts) {
		return fmt.Errorf("cannot BlindRotateBatch: %w", tfhe.ShapeMismatch("number of accumulators", len(accs), len(cts)))
	}

	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = utils.Min(workers, len(cts))

	start := time.Now()

	group, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {

		w := w

		group.Go(func() error {

			buf := eval.pool.Get()
			defer eval.pool.Put(buf)

			msed := tfhe.NewSwitchedLWECiphertext(eval.params.LWEDimension(), eval.params.BlindRotationLogModulus())

			var done int
			for i := w; i < len(cts); i += workers {

				if err := ctx.Err(); err != nil {
					return err
				}

				if err := eval.blindRotate(accs[i], cts[i], msed, buf); err != nil {
					return fmt.Errorf("cannot BlindRotateBatch: item %d: %w", i, err)
				}

				done++
			}

			eval.logger.Debug().Int("worker", w).Int("items", done).Msg("Blind rotation worker done")

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	eval.logger.Debug().
		Int("items", len(cts)).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("Blind rotation batch done")

	return nil
}
