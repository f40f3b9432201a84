package genome

// Builtin chromosome tables for common genomes.

func mustNew(name string, chroms []string, sizes []int64) *Genome {
	g, err := New(name, chroms, sizes)
	if err != nil {
		panic(err)
	}
	if err := Register(g); err != nil {
		panic(err)
	}
	return g
}

var (
	MM9 = mustNew("mm9",
		[]string{"chr1", "chr2", "chr3", "chr4", "chr5", "chr6", "chr7", "chr8", "chr9",
			"chr10", "chr11", "chr12", "chr13", "chr14", "chr15", "chr16", "chr17", "chr18",
			"chr19", "chrX", "chrY", "chrM"},
		[]int64{197195432, 181748087, 159599783, 155630120, 152537259, 149517037,
			152524553, 131738871, 124076172, 129993255, 121843856, 121257530,
			120284312, 125194864, 103494974, 98319150, 95272651, 90772031, 61342430,
			166650296, 15902555, 16299})

	HG19 = mustNew("hg19",
		[]string{"chr1", "chr2", "chr3", "chr4", "chr5", "chr6", "chr7", "chr8",
			"chr9", "chr10", "chr11", "chr12", "chr13", "chr14", "chr15", "chr16",
			"chr17", "chr18", "chr19", "chr20", "chr21", "chr22", "chrX", "chrY", "chrM"},
		[]int64{249250621, 243199373, 198022430, 191154276, 180915260, 171115067,
			159138663, 146364022, 141213431, 135534747, 135006516, 133851895,
			115169878, 107349540, 102531392, 90354753, 81195210, 78077248, 59128983,
			63025520, 48129895, 51304566, 155270560, 59373566, 16571})

	HG18 = mustNew("hg18",
		[]string{"chr1", "chr2", "chr3", "chr4", "chr5", "chr6", "chr7", "chr8",
			"chr9", "chr10", "chr11", "chr12", "chr13", "chr14", "chr15", "chr16",
			"chr17", "chr18", "chr19", "chr20", "chr21", "chr22", "chrX", "chrY",
			"chrM"},
		[]int64{247249719, 242951149, 199501827, 191273063, 180857866, 170899992,
			158821424, 146274826, 140273252, 135374737, 134452384, 132349534,
			114142980, 106368585, 100338915, 88827254, 78774742, 76117153, 63811651,
			62435964, 46944323, 49691432, 154913754, 57772954, 16571})
)
