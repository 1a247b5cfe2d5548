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

import "bytes"
import "context"
import "io/ioutil"
import "os"
import "path/filepath"
import "runtime"
import "strings"
import "testing"
import "time"

import "github.com/klauspost/pgzip"
import "github.com/pkg/errors"
import "github.com/sirupsen/logrus"
import logtest "github.com/sirupsen/logrus/hooks/test"

/* -------------------------------------------------------------------------- */

func writeTestFile(test *testing.T, name, content string) string {
  filename := filepath.Join(test.TempDir(), name)
  if err := ioutil.WriteFile(filename, []byte(content), 0666); err != nil {
    test.Fatal(err)
  }
  return filename
}

func newTestCountConfig(k int) CountConfig {
  config := DefaultCountConfig()
  config.K      = k
  config.Logger = newTestLogger()
  return config
}

func newTestEnrichmentConfig(k int, algorithm EnrichmentAlgorithm) EnrichmentConfig {
  config := DefaultEnrichmentConfig()
  config.K         = k
  config.Algorithm = algorithm
  config.Logger    = newTestLogger()
  return config
}

/* -------------------------------------------------------------------------- */

func TestApiCount1(test *testing.T) {
  filename := writeTestFile(test, "test.fa", ">a\nACGTAC\n>b\nGTAC\n")
  result, err := CountKmers(context.Background(), filename, newTestCountConfig(2))
  if err != nil {
    test.Fatal(err)
  }
  // AC:3 CG:1 GT:2 TA:2
  if len(result.Records) != 4 || result.Bootstrap {
    test.Fatal("test failed")
  }
  names  := []string{"AC", "CG", "GT", "TA"}
  counts := []float64{3, 1, 2, 2}
  for i, r := range result.Records {
    if r.Name() != names[i] || r.Count != counts[i] {
      test.Errorf("test failed for k-mer %s", r.Name())
    }
  }
  var buffer bytes.Buffer
  if err := result.WriteTable(&buffer, true); err != nil {
    test.Fatal(err)
  }
  if buffer.String() != "kmer\tcount\nAC\t3\nCG\t1\nGT\t2\nTA\t2\n" {
    test.Errorf("test failed: %q", buffer.String())
  }
}

func TestApiCount2(test *testing.T) {
  filename := writeTestFile(test, "test.txt", "ACGTAC\nGTAC\nTTTT\n")
  config   := newTestCountConfig(2)
  config.SortDescending = true
  result, err := CountKmers(context.Background(), filename, config)
  if err != nil {
    test.Fatal(err)
  }
  // ties in alphabetical order
  if result.Records[0].Name() != "AC" || result.Records[1].Name() != "TT" || result.Records[1].Count != 3 {
    test.Error("test failed")
  }
  if result.Records[len(result.Records)-1].Name() != "CG" {
    test.Error("test failed")
  }
}

func TestApiCount3(test *testing.T) {
  filename := writeTestFile(test, "test.txt", "ACGTAC\nGTAC\nTTTT\nACGA\nGGGG\n")
  config   := newTestCountConfig(2)
  config.BootstrapIterations = 4
  config.SamplePercent       = 60
  config.Seed                = 3
  config.Threads             = 2
  a, err := CountKmers(context.Background(), filename, config)
  if err != nil {
    test.Fatal(err)
  }
  b, _ := CountKmers(context.Background(), filename, config)
  if !a.Bootstrap || len(a.Tables) != 4 || a.Seed != 3 {
    test.Fatal("test failed")
  }
  if len(a.Records) != len(b.Records) {
    test.Fatal("test failed")
  }
  for i := range a.Records {
    if a.Records[i] != b.Records[i] {
      test.Error("test failed: bootstrap is not reproducible")
    }
  }
  // the sample percent is checked only for bootstrap runs
  config.SamplePercent = 0
  if _, err := CountKmers(context.Background(), filename, config); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
  config.BootstrapIterations = 0
  if _, err := CountKmers(context.Background(), filename, config); err != nil {
    test.Error("test failed")
  }
}

func TestApiCount4(test *testing.T) {
  filename := writeTestFile(test, "test.txt", "ACGT\n")
  if _, err := CountKmers(context.Background(), filename, newTestCountConfig(0)); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
  if _, err := CountKmers(context.Background(), filename, newTestCountConfig(17)); !errors.Is(err, ErrUnsupportedLength) {
    test.Error("test failed")
  }
  if _, err := CountKmers(context.Background(), filename+".missing", newTestCountConfig(2)); !errors.Is(err, ErrIO) {
    test.Error("test failed")
  }
  malformed := writeTestFile(test, "test.fq", "@r\nACGT\n+\nII\n")
  if _, err := CountKmers(context.Background(), malformed, newTestCountConfig(2)); !errors.Is(err, ErrFormat) {
    test.Error("test failed")
  } else
  if !strings.Contains(err.Error(), "test.fq") {
    test.Error("test failed: error does not name the file")
  }
}

func TestApiCount5(test *testing.T) {
  // shuffled counts preserve 1-mer and 2-mer counts for klet 2
  filename := writeTestFile(test, "test.txt", "ACGTTGCAAGCTAGCTAGGATCGATCG\nTTGACGATCGACTAGCA\n")
  config   := newTestCountConfig(2)
  a, _ := CountKmers(context.Background(), filename, config)
  config.Shuffled       = true
  config.KletForShuffle = 2
  config.Seed           = 1
  b, err := CountKmers(context.Background(), filename, config)
  if err != nil {
    test.Fatal(err)
  }
  if len(a.Records) != len(b.Records) {
    test.Fatal("test failed")
  }
  for i := range a.Records {
    if a.Records[i] != b.Records[i] {
      test.Error("test failed")
    }
  }
}

/* -------------------------------------------------------------------------- */

func TestApiEnrichment1(test *testing.T) {
  testFile    := writeTestFile(test, "test.fa", ">a\nAAAC\n")
  controlFile := writeTestFile(test, "control.fa", ">a\nAAGG\n")
  result, err := Enrichments(context.Background(), testFile, controlFile, newTestEnrichmentConfig(2, EnrichmentNormal))
  if err != nil {
    test.Fatal(err)
  }
  if len(result.Records) != 4 || result.Records[0].Name() != "AA" || result.Records[0].Enrichment != 2 {
    test.Error("test failed")
  }
  // control is required
  if _, err := Enrichments(context.Background(), testFile, "", newTestEnrichmentConfig(2, EnrichmentNormal)); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
  // and ignored by other algorithms, even if it does not exist
  if _, err := Enrichments(context.Background(), testFile, controlFile+".missing", newTestEnrichmentConfig(2, EnrichmentProbabilistic)); err != nil {
    test.Error("test failed")
  }
}

func TestApiEnrichment2(test *testing.T) {
  testFile := writeTestFile(test, "test.fa", ">a\nACGTTGCAAGCTAGCTAGGATCGATCG\n>b\nTTGACGATCGACTAGCA\n")
  for _, algorithm := range []EnrichmentAlgorithm{EnrichmentShuffled, EnrichmentProbabilistic, EnrichmentShuffledProbabilistic} {
    config := newTestEnrichmentConfig(3, algorithm)
    config.Seed                = 5
    config.BootstrapIterations = 3
    config.SamplePercent       = 100
    config.SortDescending      = true
    result, err := Enrichments(context.Background(), testFile, "", config)
    if err != nil {
      test.Fatal(err)
    }
    if result.Seed != 5 || !result.Bootstrap || len(result.Records) == 0 {
      test.Error("test failed")
    }
    for i := 1; i < len(result.Records); i++ {
      if result.Records[i-1].Enrichment < result.Records[i].Enrichment {
        test.Error("test failed: records are not sorted")
      }
    }
    var buffer bytes.Buffer
    if err := result.WriteTable(&buffer, true); err != nil {
      test.Fatal(err)
    }
    if lines := strings.Split(strings.TrimSpace(buffer.String()), "\n"); len(lines) != len(result.Records)+1 {
      test.Error("test failed")
    } else
    if lines[0] != "kmer\ttest\tbackground\tenrichment\tsd" {
      test.Error("test failed")
    }
  }
}

/* -------------------------------------------------------------------------- */

func TestApiIkke1(test *testing.T) {
  testFile    := writeTestFile(test, "test.fa", ">a\nGGGTAGGGTAGGGTA\n>b\nTTGGGTACC\n")
  controlFile := writeTestFile(test, "control.fa", ">a\nACGTACGTAC\n>b\nTTACCAGGGT\n")
  config      := newTestIkkeConfig(4, 3, false)
  r, err := Ikke(context.Background(), testFile, controlFile, config)
  if err != nil {
    test.Fatal(err)
  }
  if len(r) == 0 || len(r) > 3 {
    test.Error("test failed")
  }
  if _, err := Ikke(context.Background(), testFile, "", config); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
  config.Probabilistic = true
  if _, err := Ikke(context.Background(), testFile, controlFile+".missing", config); err != nil {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestApiEstimatedOutputSize(test *testing.T) {
  if rows, bytes := EstimatedOutputSize(12); rows != 16777216 || bytes != rows*24 {
    test.Error("test failed")
  }
  if rows, _ := EstimatedOutputSize(0); rows != 0 {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestApiExport(test *testing.T) {
  filename := writeTestFile(test, "test.fa", ">a\nACGTAC\n")
  result, err := CountKmers(context.Background(), filename, newTestCountConfig(3))
  if err != nil {
    test.Fatal(err)
  }
  out := filepath.Join(test.TempDir(), "counts.table.gz")
  if err := result.ExportTable(out, false); err != nil {
    test.Fatal(err)
  }
  f, err := os.Open(out)
  if err != nil {
    test.Fatal(err)
  }
  defer f.Close()
  g, err := pgzip.NewReader(f)
  if err != nil {
    test.Fatal(err)
  }
  b, err := ioutil.ReadAll(g)
  if err != nil {
    test.Fatal(err)
  }
  if string(b) != "ACG\t1\nCGT\t1\nGTA\t1\nTAC\t1\n" {
    test.Errorf("test failed: %q", string(b))
  }
}

func TestApiIkkeExport(test *testing.T) {
  r := IkkeResult{{Iteration: 1, Kmer: 0, K: 2, Score: 2.5}, {Iteration: 2, Kmer: 15, K: 2, Score: 1.5}}
  var buffer bytes.Buffer
  if err := r.WriteTable(&buffer, true); err != nil {
    test.Fatal(err)
  }
  if buffer.String() != "iteration\tkmer\tscore\n1\tAA\t2.500000\n2\tTT\t1.500000\n" {
    test.Errorf("test failed: %q", buffer.String())
  }
  if err := r.ExportPlot(filepath.Join(test.TempDir(), "ikke.png"), false); err != nil {
    test.Error(err)
  }
  if err := (IkkeResult{}).ExportPlot(filepath.Join(test.TempDir(), "ikke.png"), false); !errors.Is(err, ErrInvalidArgument) {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestApiGoroutines(test *testing.T) {
  testFile    := writeTestFile(test, "test.fa", ">a\nGGGTAGGGTAGGGTA\n>b\nTTGGGTACC\n")
  controlFile := writeTestFile(test, "control.fa", ">a\nACGTACGTAC\n>b\nTTACCAGGGT\n")

  countConfig := newTestCountConfig(3)
  countConfig.Threads = 4
  enrichmentConfig := newTestEnrichmentConfig(3, EnrichmentNormal)
  enrichmentConfig.Threads = 4
  ikkeConfig := newTestIkkeConfig(3, 2, false)
  ikkeConfig.Threads = 4

  before := runtime.NumGoroutine()
  for i := 0; i < 10; i++ {
    if _, err := CountKmers(context.Background(), testFile, countConfig); err != nil {
      test.Fatal(err)
    }
    if _, err := Enrichments(context.Background(), testFile, controlFile, enrichmentConfig); err != nil {
      test.Fatal(err)
    }
    if _, err := Ikke(context.Background(), testFile, controlFile, ikkeConfig); err != nil {
      test.Fatal(err)
    }
  }
  // workers exit asynchronously after the pool is stopped
  after := runtime.NumGoroutine()
  for i := 0; i < 200 && after > before; i++ {
    time.Sleep(10*time.Millisecond)
    after = runtime.NumGoroutine()
  }
  if after > before {
    test.Errorf("test failed: %d goroutines before and %d after", before, after)
  }
}

func countWarnings(hook *logtest.Hook) int {
  n := 0
  for _, e := range hook.AllEntries() {
    if e.Level == logrus.WarnLevel {
      n++
    }
  }
  return n
}

func TestApiBootstrapWarning(test *testing.T) {
  filename := writeTestFile(test, "test.txt", "ACGTAC\nGTAC\nTTTT\n")
  logger, hook := logtest.NewNullLogger()

  config := newTestCountConfig(2)
  config.Logger              = logger
  config.BootstrapIterations = 3
  config.SamplePercent       = 100
  if _, err := CountKmers(context.Background(), filename, config); err != nil {
    test.Fatal(err)
  }
  if countWarnings(hook) != 1 {
    test.Error("test failed: full sample bootstrap is not reported")
  }
  hook.Reset()

  config.SamplePercent = 50
  if _, err := CountKmers(context.Background(), filename, config); err != nil {
    test.Fatal(err)
  }
  if countWarnings(hook) != 0 {
    test.Error("test failed")
  }
  // without bootstrap the sample percent is irrelevant
  config.BootstrapIterations = 0
  config.SamplePercent       = 100
  if _, err := CountKmers(context.Background(), filename, config); err != nil {
    test.Fatal(err)
  }
  if countWarnings(hook) != 0 {
    test.Error("test failed")
  }
  econfig := newTestEnrichmentConfig(2, EnrichmentProbabilistic)
  econfig.Logger              = logger
  econfig.BootstrapIterations = 2
  econfig.SamplePercent       = 100
  if _, err := Enrichments(context.Background(), filename, "", econfig); err != nil {
    test.Fatal(err)
  }
  if countWarnings(hook) != 1 {
    test.Error("test failed")
  }
}
