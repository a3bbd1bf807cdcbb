package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tuneinsight/torus/core/blindrot"
	"github.com/tuneinsight/torus/core/ggsw"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
)

// messageBits is the number of bits of the messages. A message m is encoded as m * 2^(W-messageBits-1),
// which keeps the phases in the first half of the torus where the identity accumulator is not negated.
// The message 0 is not used: its phase straddles the negacyclic wrap around.
const messageBits = 4

type rotateOptions struct {
	Mode    string
	Count   int
	Workers int
}

type rotateReport struct {
	Count   int
	Matched int
	KeyGen  time.Duration
	Elapsed time.Duration
}

// encode maps a message to the torus.
func encode[T ring.Torus](m int) T {
	return T(m) << (ring.Bits[T]() - messageBits - 1)
}

// decode maps a decrypted torus element to the closest message.
func decode[T ring.Torus](pt T) int {
	return tfhe.ModulusSwitch(pt, messageBits+1)
}

func runRotate[T ring.Torus](ctx context.Context, params tfhe.Parameters, seeder sampling.Seeder, opts rotateOptions, logger zerolog.Logger) (report *rotateReport, err error) {

	if opts.Mode != modeLatency && opts.Mode != modeThroughput {
		return nil, fmt.Errorf("invalid mode %q: must be %s or %s", opts.Mode, modeLatency, modeThroughput)
	}

	if opts.Count < 0 {
		return nil, fmt.Errorf("invalid count %d: must be positive", opts.Count)
	}

	logger.Info().
		Int("width", ring.Bits[T]()).
		Int("n", params.LWEDimension()).
		Int("k", params.GLWEDimension()).
		Int("N", params.PolynomialSize()).
		Int("B", params.BaseLog()).
		Int("l", params.LevelCount()).
		Str("q", params.CiphertextModulus().String()).
		Msg("Generating keys")

	start := time.Now()

	kgen, err := tfhe.NewKeyGenerator[T](seeder)
	if err != nil {
		return nil, err
	}

	enc, err := tfhe.NewEncryptor[T](params, seeder)
	if err != nil {
		return nil, err
	}

	dec := tfhe.NewDecryptor[T](params)

	lweSK := kgen.GenLWESecretKeyNew(params.LWEDimension())
	glweSK := kgen.GenGLWESecretKeyNew(params.GLWEDimension(), params.PolynomialSize())

	bsk, err := blindrot.GenBootstrapKeyNew(params, lweSK, glweSK, ggsw.NewEncryptor(enc))
	if err != nil {
		return nil, err
	}

	fft, err := ring.NewFFT(params.PolynomialSize())
	if err != nil {
		return nil, err
	}

	fbsk, err := blindrot.NewFourierBootstrapKeyFromKey(params, bsk, fft)
	if err != nil {
		return nil, err
	}

	eval, err := blindrot.NewEvaluator[T](params, fbsk)
	if err != nil {
		return nil, err
	}
	eval = eval.WithLogger(logger)

	report = &rotateReport{Count: opts.Count, KeyGen: time.Since(start)}

	logger.Debug().Dur("elapsed", report.KeyGen).Msg("Keys generated")

	k, N := params.GLWEDimension(), params.PolynomialSize()

	msgs := make([]int, opts.Count)
	cts := make([]*tfhe.LWECiphertext[T], opts.Count)
	accs := make([]*tfhe.GLWECiphertext[T], opts.Count)

	for i := range cts {
		msgs[i] = 1 + i%(1<<messageBits-1)
		if cts[i], err = enc.EncryptLWENew(lweSK, encode[T](msgs[i])); err != nil {
			return nil, err
		}
		accs[i] = blindrot.NewIdentityAccumulator[T](k, N)
	}

	start = time.Now()

	switch opts.Mode {
	case modeLatency:
		for i := range cts {
			if err = eval.BlindRotate(accs[i], cts[i]); err != nil {
				return nil, err
			}
		}
	case modeThroughput:
		if err = eval.BlindRotateBatch(ctx, accs, cts, opts.Workers); err != nil {
			return nil, err
		}
	}

	report.Elapsed = time.Since(start)

	sk := glweSK.AsLWESecretKey()
	out := tfhe.NewLWECiphertext[T](params.ExtractedLWEDimension())

	for i := range accs {

		if err = accs[i].SampleExtract(0, out); err != nil {
			return nil, err
		}

		pt, err := dec.DecryptLWE(sk, out)
		if err != nil {
			return nil, err
		}

		have := decode(pt)

		logger.Debug().Int("item", i).Int("want", msgs[i]).Int("have", have).Msg("Decrypted")

		if have == msgs[i] {
			report.Matched++
		}
	}

	return
}
