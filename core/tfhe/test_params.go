package tfhe

var (
	// testInsecure are insecure parameters used for the sole purpose of fast testing.
	testInsecure = []ParametersLiteral{
		{
			LWEDimension:   16,
			GLWEDimension:  1,
			PolynomialSize: 256,
			BaseLog:        7,
			LevelCount:     3,
			LWEStdDev:      0x1p-25,
			GLWEStdDev:     0x1p-25,
		},
		{
			LWEDimension:   16,
			GLWEDimension:  2,
			PolynomialSize: 128,
			BaseLog:        10,
			LevelCount:     2,
			LWEStdDev:      0x1p-25,
			GLWEStdDev:     0x1p-25,
		},
		{
			LWEDimension:         16,
			GLWEDimension:        1,
			PolynomialSize:       256,
			BaseLog:              7,
			LevelCount:           3,
			CiphertextModulusLog: 30,
			LWEStdDev:            0x1p-25,
			GLWEStdDev:           0x1p-25,
		},
	}
)
