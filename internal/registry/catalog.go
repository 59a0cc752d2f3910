package registry

// builtinCatalog seeds the registry with the components of the training
// frameworks this tool targets. The names here are canonical; Normalize
// makes class-style spellings from study documents match them.
var builtinCatalog = map[Axis][]string{
	AxisDataset: {
		"countries", "fb15k", "fb15k237", "kinships", "nations",
		"umls", "wn18", "wn18rr", "yago310",
	},
	AxisModel: {
		"complex", "conve", "convkb", "distmult", "ermlp", "hole",
		"kg2e", "ntn", "proje", "rescal", "rgcn", "rotate", "simple",
		"structuredembedding", "transd", "transe", "transh", "transr",
		"tucker", "um",
	},
	AxisTrainingLoop: {
		"lcwa", "slcwa",
	},
	AxisOptimizer: {
		"adadelta", "adagrad", "adam", "adamax", "adamw", "sgd",
	},
	AxisLossFunction: {
		"bceaftersigmoid", "bcewithlogits", "crossentropy",
		"marginranking", "mse", "nssa", "softplus",
	},
	AxisRegularizer: {
		"combined", "lp", "no", "powersum", "transh",
	},
	AxisNegativeSampler: {
		"basic", "bernoulli",
	},
	AxisEvaluator: {
		"classification", "rankbased",
	},
	AxisStopper: {
		"early", "nop",
	},
	AxisSampler: {
		"grid", "random", "tpe",
	},
	AxisPruner: {
		"hyperband", "median", "nop", "percentile",
	},
}

// builtinAliases maps historical or shorthand spellings to catalog entries.
var builtinAliases = map[Axis]map[string]string{
	AxisTrainingLoop: {
		// Pre-1.0 names for the two training assumptions.
		"owa": "slcwa",
		"cwa": "lcwa",
	},
	AxisModel: {
		"se": "structuredembedding",
	},
	AxisStopper: {
		"earlystopping": "early",
	},
}
