// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/grailbio/asmqc/inspector"
	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/asmqc/segdup"
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func addSegdupFlags(fs *flag.FlagSet, opts *segdup.Opts) {
	fs.StringVar(&opts.NameA, "a-name", "", "Name of method A.  Used in output file names; must differ from -b-name.")
	fs.StringVar(&opts.NameB, "b-name", "", "Name of method B.  Used in output file names; must differ from -a-name.")
	fs.StringVar(&opts.OutputDir, "output-dir", opts.OutputDir, "Directory for just_<A>.bed, just_<B>.bed and <A>_vs_<B>_inCommon.bed")
}

func newCmdCompare() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "compare-segdups",
		Short: "Reconcile segmental duplication calls of two methods",
		Long: `
compare-segdups matches every duplication of method A against the duplications
of method B.  A pair matches when both of its loci overlap the corresponding
loci of the other pair reciprocally (at least -min-frac-a of the A locus and
-min-frac-b of the B locus).  The records of A without a match go to
just_<A>.bed, those of B to just_<B>.bed, and the matched records of B to
<A>_vs_<B>_inCommon.bed.  Input lines keep their original format.`,
		ArgsName: "a.tab b.tab",
	}
	opts := segdup.DefaultOpts
	addSegdupFlags(&cmd.Flags, &opts)
	cmd.Flags.StringVar(&opts.TempDir, "temp-dir", "", "Parent of the run's scratch directory.  Empty means the system default.")
	cmd.Flags.BoolVar(&opts.KeepTemp, "keep-temp", false, "Keep the half-view and confirmed-pair files after the run")
	cmd.Flags.Float64Var(&opts.MinFracA, "min-frac-a", opts.MinFracA, "Minimum overlap, as a fraction of the A locus")
	cmd.Flags.Float64Var(&opts.MinFracB, "min-frac-b", opts.MinFracB, "Minimum overlap, as a fraction of the B locus")
	cmd.Flags.StringVar(&opts.BedtoolsPath, "bedtools", "", "Path of a bedtools binary.  If set, overlaps are computed by 'bedtools intersect' instead of in process.")
	cmd.Flags.BoolVar(&opts.Parallel, "parallel", opts.Parallel, "Search front and back overlaps concurrently")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("compare-segdups takes two duplication files, but got %v", argv)
		}
		_, err := compareSegdups(vcontext.Background(), opts, argv[0], argv[1], env.Stdout)
		return err
	})
	return cmd
}

func newCmdClassify() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "classify",
		Short: "Split two duplication files using a confirmed-pairs file",
		Long: `
classify redoes the last step of compare-segdups from a confirmed-pairs file
(line_numbers_in_common.tsv, kept with -keep-temp).`,
		ArgsName: "pairs.tsv a.tab b.tab",
	}
	opts := segdup.DefaultOpts
	addSegdupFlags(&cmd.Flags, &opts)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("classify takes pairs.tsv a.tab b.tab, but got %v", argv)
		}
		return classify(vcontext.Background(), opts, argv[0], argv[1], argv[2], env.Stdout)
	})
	return cmd
}

func newCmdErrorStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "error-stats",
		Short: "Summarize assembly error calls over a batch of samples",
		Long: `
error-stats reads <input-dir>/<NN_sample>/<haplotype>/{summary_statistics,
small_scale_error.bed,structural_error.bed} for every sample directory and
writes inspector_error_summary.tsv to the output directory.  Settings may be
read from a TOML file with -config; flags given explicitly take precedence.`,
	}
	configFlag := cmd.Flags.String("config", "", "TOML file with batch settings")
	cmd.Flags.String("input-dir", "", "Directory holding one <NN_sample> directory per sample")
	cmd.Flags.String("output-dir", inspector.DefaultBatchOpts.OutputDir, "Output directory")
	cmd.Flags.String("haplotypes", strings.Join(inspector.DefaultBatchOpts.Haplotypes, ","), "Comma-separated haplotype subdirectories to analyze")
	cmd.Flags.Int("parallelism", inspector.DefaultBatchOpts.Parallelism, "Number of haplotypes analyzed at once; 0 means unlimited")
	cmd.Flags.Bool("save-detailed-errors", false, "Also write all_small_scale_errors.tsv and all_structural_errors.tsv")
	cmd.Flags.Bool("save-text-report", false, "Also write inspector_detailed_stats.txt")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("error-stats takes no arguments, but got %v", argv)
		}
		ctx := vcontext.Background()
		opts := inspector.DefaultBatchOpts
		if *configFlag != "" {
			if err := inspector.LoadBatchOpts(ctx, *configFlag, &opts); err != nil {
				return err
			}
		}
		if err := applyBatchFlags(&cmd.Flags, &opts); err != nil {
			return err
		}
		return errorStats(ctx, opts, env.Stdout)
	})
	return cmd
}

func newCmdCoverage() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "coverage",
		Short:    "Print the non-redundant coverage of a sorted BED file",
		ArgsName: "path",
	}
	oneBased := cmd.Flags.Bool("one-based", false, "Interpret intervals as 1-based, closed")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("coverage takes one pathname argument, but got %v", argv)
		}
		return coverage(vcontext.Background(), argv[0], interval.NewBEDOpts{OneBasedInput: *oneBased}, env.Stdout)
	})
	return cmd
}

// Run is the entry point of bio-asmqc.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-asmqc",
			Short:    "Quality checks for genome assemblies",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdCompare(),
				newCmdClassify(),
				newCmdErrorStats(),
				newCmdCoverage(),
			},
		})
}
