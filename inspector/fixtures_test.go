package inspector

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSummary = `Statistics of contigs:
Number of contigs	3
Number of contigs > 10000 bp	3
Number of contigs >1000000 bp	2
Total length	10000000
Total length of contigs > 10000 bp	9990000
Longest contig	6000000
N50	5000000

Read to Contig alignment:
Mapping rate /%	99.52
Depth	41.7

Structural error	3
Expansion	1
Collapse	1
Haplotype switch	1
Inversion	0

Small-scale assembly error /per Mbp	0.3
Total small-scale assembly error	3
Base substitution	1
Small-scale expansion	1
Small-scale collapse	1

QV	45.25
`

const testSmallScaleBED = `#Contig	Start	End	Base_contig	Base_read	Supporting_reads	Depth	Type	pvalue
contig_1	100	101	A	G	5	30	BaseSubstitution	0.001
contig_1	200	210	-	ACGTACGTAC	4	30	SmallExpansion	0.01
contig_1	205	215	ACGTACGTAC	-	4	30	SmallCollapse	0.01
`

const testStructuralBED = `#Contig	Start	End	Supporting_reads	Type	Size	Haplotype	Depth_left	Depth_right	Depth_min	Read_names	Hap_switch
contig_1	1000	2000	10	Expansion	Size=1000	hap1	30	30	30	r1,r2	.
contig_2	5000;9000	5100;9100	8	HaplotypeSwitch	Size=100;Size=200	.	30	30	30	r3	HS
contig_1	1500	3000	6	Collapse	Size=1500	.	30	30	30	r4	.
`

func writeTestFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}
