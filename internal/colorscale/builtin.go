package colorscale

var builtin = []Scale{
	New("Viridis",
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"),
	New("Cividis",
		"#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838"),
	New("Plasma",
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"),
	New("Inferno",
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"),
	New("Magma",
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"),
	New("Turbo",
		"#30123b", "#4145ab", "#4675ed", "#39a2fc", "#1bcfd4",
		"#24eca6", "#61fc6c", "#a4fc3b", "#d1e834", "#f3c63a",
		"#fe9b2d", "#f36315", "#d93806", "#b11901", "#7a0402"),
	New("RdBu",
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
		"#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"),
	{
		Name: "Jet",
		Stops: []Stop{
			{0, mustHex("#000083")},
			{0.125, mustHex("#003caa")},
			{0.375, mustHex("#05ffff")},
			{0.625, mustHex("#ffff00")},
			{0.875, mustHex("#fa0000")},
			{1, mustHex("#800000")},
		},
	},
	New("Blues",
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b"),
}
