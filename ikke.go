/* Copyright (C) 2024 Philipp Benner
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */


package kmerenrich

/* -------------------------------------------------------------------------- */

import "context"
import "math"

import "github.com/sirupsen/logrus"

/* -------------------------------------------------------------------------- */

type IkkeConfig struct {
  K             int
  Iterations    int
  // use a probabilistic background instead of control sequences
  Probabilistic bool
  // report log2 enrichments
  Normalize     bool
  Threads       int
  DenseMaxK     int
  Logger       *logrus.Logger
}

func DefaultIkkeConfig() IkkeConfig {
  return IkkeConfig{
    K         : 6,
    Iterations: 10,
    Threads   : 1,
    DenseMaxK : DefaultDenseMaxK,
    Logger    : logrus.StandardLogger() }
}

/* -------------------------------------------------------------------------- */

type IkkeRecord struct {
  Iteration int
  Kmer      Kmer
  K         int
  Score     float64
}

func (obj IkkeRecord) Name() string {
  return kmerName(obj.Kmer, obj.K)
}

type IkkeResult []IkkeRecord

/* -------------------------------------------------------------------------- */

// Iterative k-mer knockout enrichment. Every step selects the most enriched
// k-mer and masks all of its occurrences in the test and control sequences,
// so that the next step reveals the next most enriched motif. Pools are
// never modified, every step replaces them with new collections.
type IkkeController struct {
  config    IkkeConfig
  engine   *EnrichmentEngine
  test      SequenceCollection
  control  *SequenceCollection
  iteration int
  results   IkkeResult
  done      bool
}

/* -------------------------------------------------------------------------- */

func NewIkkeController(test SequenceCollection, control *SequenceCollection, config IkkeConfig) (*IkkeController, error) {
  if config.Logger == nil {
    config.Logger = logrus.StandardLogger()
  }
  if config.Iterations < 1 {
    return nil, newError(ErrInvalidArgument, "number of IKKE iterations must be at least 1, got %d", config.Iterations)
  }
  algorithm := EnrichmentNormal
  if config.Probabilistic {
    algorithm = EnrichmentProbabilistic
    if control != nil {
      config.Logger.Warn("probabilistic IKKE ignores control sequences")
      control = nil
    }
  } else {
    if control == nil {
      return nil, newError(ErrInvalidArgument, "IKKE requires control sequences unless the probabilistic background is used")
    }
  }
  counter, err := NewKmerCounter(config.K, config.Threads, config.DenseMaxK)
  if err != nil {
    return nil, err
  }
  return &IkkeController{
    config : config,
    engine : NewEnrichmentEngine(counter, algorithm, -1),
    test   : test,
    control: control }, nil
}

/* -------------------------------------------------------------------------- */

func (obj *IkkeController) Test() SequenceCollection {
  return obj.test
}

// Current control sequences, nil for probabilistic runs.
func (obj *IkkeController) Control() *SequenceCollection {
  return obj.control
}

func (obj *IkkeController) Iteration() int {
  return obj.iteration
}

func (obj *IkkeController) Results() IkkeResult {
  return obj.results
}

// True if the configured number of iterations is reached or no k-mer is
// enriched anymore.
func (obj *IkkeController) Done() bool {
  return obj.done || obj.iteration >= obj.config.Iterations
}

/* -------------------------------------------------------------------------- */

// Release the worker goroutines of the controller.
func (obj *IkkeController) Close() {
  obj.engine.counter.Close()
}

/* -------------------------------------------------------------------------- */

// Perform a single iteration. The second return value is false if the
// controller is done and no record was produced.
func (obj *IkkeController) Step(ctx context.Context) (IkkeRecord, bool, error) {
  if obj.Done() {
    return IkkeRecord{}, false, nil
  }
  records, err := obj.engine.Enrich(ctx, obj.test, obj.control, 0)
  if err != nil {
    return IkkeRecord{}, false, err
  }
  best, ok := records.Max()
  if !ok {
    obj.config.Logger.Debugf("IKKE iteration %d: no enriched k-mer left", obj.iteration+1)
    obj.done = true
    return IkkeRecord{}, false, nil
  }
  obj.iteration++
  record := IkkeRecord{Iteration: obj.iteration, Kmer: best.Kmer, K: best.K, Score: best.Enrichment}
  if obj.config.Normalize {
    record.Score = math.Log2(record.Score)
  }
  obj.results = append(obj.results, record)

  obj.config.Logger.WithFields(logrus.Fields{
    "iteration" : record.Iteration,
    "kmer"      : record.Name(),
    "enrichment": best.Enrichment }).Debug("IKKE selected k-mer")

  // knock out the selected k-mer
  matcher, err := NewSeqseqMatcher(record.Name())
  if err != nil {
    return IkkeRecord{}, false, err
  }
  obj.test = obj.test.Mask(matcher)
  if obj.control != nil {
    control    := obj.control.Mask(matcher)
    obj.control = &control
  }
  return record, true, nil
}

// Iterate until the configured number of iterations is reached or the
// sequences are exhausted.
func (obj *IkkeController) Run(ctx context.Context) (IkkeResult, error) {
  for !obj.Done() {
    if _, _, err := obj.Step(ctx); err != nil {
      return nil, err
    }
  }
  return obj.results, nil
}
