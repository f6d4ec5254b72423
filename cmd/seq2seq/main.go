// Package main provides the seq2seq transformer CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/born-ml/seq2seq/backend/cpu"
	"github.com/born-ml/seq2seq/generate"
	"github.com/born-ml/seq2seq/model"
	"github.com/born-ml/seq2seq/nn"
	"github.com/born-ml/seq2seq/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("seq2seq %s\n", version)
			return
		case "help", "-h", "--help":
			usage()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
			usage()
			os.Exit(2)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if err := run(context.Background(), logger); err != nil {
		logger.Error("forward pass failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("seq2seq - encoder-decoder transformer forward pass")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  (none)     Run a forward pass on a tiny random model")
	fmt.Println("  version    Show version")
}

// run assembles a tiny model, runs encode, decode and project on a fixed
// source and target, then greedy-decodes the source.
func run(ctx context.Context, logger *slog.Logger) error {
	backend := cpu.New()

	cfg := model.Config{
		DModel:       8,
		NumHeads:     2,
		DFF:          16,
		NumLayers:    1,
		SrcVocabSize: 10,
		TgtVocabSize: 10,
		SrcSeqLen:    4,
		TgtSeqLen:    4,
		Dropout:      model.DefaultDropout,
		NormEps:      model.DefaultNormEps,
	}
	m, err := model.New(cfg, backend,
		model.WithLogger(logger),
		model.WithInitSource(rand.NewPCG(0, 0)),
	)
	if err != nil {
		return err
	}

	src, err := tensor.FromSlice([]int32{1, 4, 7, 2}, tensor.Shape{1, 4}, backend)
	if err != nil {
		return err
	}
	tgt, err := tensor.FromSlice([]int32{1, 3, 5, 6}, tensor.Shape{1, 4}, backend)
	if err != nil {
		return err
	}
	srcMask, err := nn.PaddingMask(src, 0)
	if err != nil {
		return err
	}
	tgtMask, err := nn.DecoderMask(tgt, 0)
	if err != nil {
		return err
	}

	trace := nn.NewAttentionTrace()
	exec := nn.Inference().WithTrace(trace)

	memory, err := m.Encode(src, srcMask, exec)
	if err != nil {
		return err
	}
	out, err := m.Decode(memory, srcMask, tgt, tgtMask, exec)
	if err != nil {
		return err
	}
	logProbs, err := m.Project(out)
	if err != nil {
		return err
	}

	vocab := cfg.TgtVocabSize
	data := logProbs.Data()
	for pos := 0; pos < tgt.Shape()[1]; pos++ {
		var sum float64
		for _, lp := range data[pos*vocab : (pos+1)*vocab] {
			sum += math.Exp(float64(lp))
		}
		logger.Info("position", "index", pos, "probability_sum", sum)
	}
	logger.Info("attention traced", "layers", trace.Paths())

	ids, err := generate.Greedy(ctx, m, src, srcMask, generate.Options{SOS: 1, EOS: 2})
	if err != nil {
		return err
	}
	logger.Info("greedy decode", "ids", ids)
	return nil
}
