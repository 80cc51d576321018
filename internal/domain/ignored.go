package domain

// defaultIgnoredCompounds are ChEBI IDs of ubiquitous small molecules and
// cofactors that never establish pathway connectivity.
var defaultIgnoredCompounds = []string{
	// Inorganics
	"15377", // H2O water
	"29242", // AsH2O3
	"48597", // AsHO4
	"15858", // Br
	"16183", // CH4 methane
	"17245", // CO carbon monoxide
	"16526", // CO2 carbon dioxide
	"17996", // Cl chloride
	"85033", // Co(1+) cobalt
	"49552", // Cu(+) copper
	"29036", // Cu(2+) copper
	"17051", // F fluoride
	"29033", // Fe(2+) iron
	"29034", // Fe(3+) iron
	"15378", // H(+) hydron
	"18276", // H2
	"18407", // HCN hydrogen cyanide
	"17544", // HCO3 hydrogencarbonate
	"16240", // H2O2 hydrogen peroxide
	"43473", // HPO4 hydrogenphosphate
	"33019", // HP2O7 diphosphate
	"29919", // HS hydrosulfide
	"16382", // I iodide
	"78619", // iron(III) oxide-hydroxide(1-)
	"17997", // N2
	"28938", // NH4(+)
	"84879", // NHO
	"16480", // NO nitric oxide
	"17045", // N2O dinitrogen oxide
	"16301", // NO2(-) nitrite
	"17632", // NO3(-) nitrate
	"29101", // Na(+)
	"43474", // PO4
	"15379", // O2 dioxygen
	"18421", // O2 superoxide
	"26833", // S sulfur atom
	"17359", // SO3 sulfite
	"16189", // SO4 sulfate
	"29256", // thiol
	"18036", // triphosphate
	"58339", // 3'-phosphonato-5'-adenylyl sulfate(4-)
	"58343", // adenosine 3',5'-bismonophosphate(4-)
	// Factors
	"73299", // cobalt(II)-factor III(8-)
	"85471", // cobalt(II)-factor IV(6-)
	// Deoxyribonucleotides
	"61404", // dATP(4-)
	"57667", // dADP(3-)
	"58245", // dAMP(2-)
	"61481", // dCTP(4-)
	"58593", // dCDP(3-)
	"57566", // dCMP(2-)
	"61429", // dGTP(4-)
	"58595", // dGDP(4-)
	"57673", // dGMP(4-)
	"61382", // dITP(4-)
	"37568", // dTTP(4-)
	"58369", // dTDP(3-)
	"63528", // dTMP(2-)
	"61555", // dUTP(4-)
	"60471", // dUDP(3-)
	"246422", // dUMP(2-)
	// Ribonucleotides
	"30616", // ATP(4-)
	"456216", // ADP(3-)
	"456215", // AMP(2-)
	"37563", // CTP(4-)
	"58069", // CDP(3-)
	"60377", // CMP(2-)
	"37565", // GTP(4-)
	"58189", // GDP(3-)
	"58115", // GMP(2-)
	"61402", // ITP(4-)
	"58280", // IDP(3-)
	"58053", // IMP(2-)
	"46398", // UTP(4-)
	"58223", // UDP(3-)
	"57865", // UMP(2-)
	"61314", // XTP(4-)
	"59884", // XDP(3-)
	"57464", // XMP(2-)
	// Nucleosides
	"73316", // 2'-deoxyribonucleoside 5'-diphosphate(3-)
	"131705", // 2'-deoxynucleoside 3'-monophosphate(2-)
	"65317", // 2'-deoxynucleoside 5'-monophosphate(2-)
	"58043", // nucleoside 5'-monophosphate(2-)
	"61557", // nucleoside triphosphate(4-)
	"58464", // nucleoside 3',5'-cyclic phosphate anion
	"18274", // 2'-deoxyribonucleoside
	"66949", // nucleoside 3'-phosphate(2-)
	"83402", // nucleoside 3',5'-bisphosphate(4-)
	"57930", // nucleoside diphosphate(3-)
	"33838", // nucleoside
	"13197", // ribonucleoside 3'-monophosphate(2-)
	"61560", // 2'-deoxyribonucleoside 5'-triphosphate(4-)
	"18254", // ribonucleoside
	"57867", // nucleoside 5'-phosphate dianion
	"78552", // ribonucleoside 2'-monophosphate(2-)
	// Nucleotides
	"71310", // Mo(VI)-molybdopterin guanine dinucleotide(2-)
	"66954", // 2',3'-cyclic nucleotide(1-)
	"83064", // 3'-end ribonucleotide 2',3'-cyclic phosphate(2-) residue
	"57439", // (3Z)-phytochromobilin(2-)
	"62727", // molybdopterin adenine dinucleotide(3-)
	"57502", // nicotinate D-ribonucleotide(2-)
	"71308", // Mo(VI)-molybdopterin cytosine dinucleotide(2-)
	"75967", // nicotinate-adenine dinucleotide phosphate(4-)
	// Cofactors and coenzymes
	"16509", // 1,4-benzoquinone
	"57530", // 1,5-dihydrocoenzyme F420(4-)
	"16810", // 2-oxoglutarate(2-)
	"175763", // 2-trans,6-trans-farnesyl diphosphate(3-)
	"28889", // 5,6,7,8-tetrahydropteridine
	"57454", // 10-formyltetrahydrofolate(2-)
	"57288", // acetyl-CoA(4-)
	"58342", // acyl-CoA(4-)
	"64876", // bacillthiol(1-)
	"60488", // cob(I)alamin(1-)
	"16304", // cob(II)alamin
	"28911", // cob(III)alamin
	"57287", // CoA(4-)
	"58319", // coenzyme M(1-)
	"59920", // coenzyme F420-1(4-)
	"57922", // coenzyme gamma-F420-2(5-)
	"58596", // coenzyme B(3-)
	"59923", // coenzyme alpha-F420-3(6-)
	"83348", // chlorophyllide a(2-)
	"71302", // MoO2-molybdopterin cofactor(2-)
	"71305", // WO2-molybdopterin cofactor(2-)
	"57692", // FAD(3-)
	"58307", // FADH2(2-)
	"33737", // Fe2S2 di-mu-sulfido-diiron(2+)
	"33738", // Fe2S2 di-mu-sulfido-diiron(1+)
	"57618", // FMNH2
	"58210", // FMN(3-)
	"57925", // glutathionate(1-)
	"17594", // hydroquinone
	"57384", // malonyl-CoA(5-)
	"57540", // NAD
	"57945", // NADH
	"58349", // NADP(3-)
	"57783", // NADPH(4-)
	"17154", // nicotinamide
	"16768", // mycothiol
	"57387", // oleoyl-CoA(4-)
	"57379", // palmitoyl-CoA(4-)
	"18067", // phylloquinone
	"28026", // plastoquinol-9
	"28377", // plastoquinone-9
	"59648", // precursor Z(1-)
	"87467", // prenyl-FMNH2(2-)
	"17310", // pyridoxal
	"16709", // pyridoxine
	"58442", // pyrroloquinoline quinone(3-)
	"77660", // pyrroloquinoline quinol(4-)
	"43711", // (R)-dihydrolipoamide
	"76202", // riboflavin cyclic 4',5'-phosphate(2-)
	"57856", // S-adenosyl-L-homocysteine zwitterion
	"59789", // S-adenosyl-L-methionine zwitterion
	"71177", // tetrahydromonapterin
	"33723", // tetra-mu3-suldifo-tetrairon(1+)
	"33722", // tetra-mu3-suldifo-tetrairon(2+)
	// Porphyrins
	"62626", // uroporphyrinogen I(8-)
	"62631", // coproporphyrinogen I(4-)
	"131725", // coproporphyrin III(4-)
	"60489", // magnesium 13(1)-hydroxyprotoporphyrin 13-monomethyl ester(1-)
	"57307", // protoporphyrinogen(2-)
	"57306", // protoporphyrin(2-)
	"60490", // magnesium 13(1)-oxoprotoporphyrin 13-monomethyl ester(1-)
	"57845", // preuroporphyrinogen(8-)
	"60492", // magnesium protoporphyrin(2-)
	"60491", // magnesium protoporphyrin 13-monomethyl ester(1-)
	"57308", // uroporphyrinogen III(8-)
	"57309", // coproporphyrinogen III(4-)
}

// DefaultIgnoredCompounds returns a fresh copy of the built-in ignored set.
func DefaultIgnoredCompounds() IDSet {
	return NewIDSet(defaultIgnoredCompounds...)
}
