package stages

// chapterHints lists the kinds of visuals typically found in each Class 10
// mathematics chapter. The detection prompt quotes them to the model.
var chapterHints = map[string][]string{
	"વાસ્તવિક સંખ્યાઓ": {
		"સંખ્યા રેખા પર દર્શાવેલી સંખ્યાઓ",
		"મૂળાંક સાથે સંબંધિત આકૃતિઓ",
	},
	"બહુપદીઓ": {
		"બહુપદીઓના ગ્રાફ",
		"મૂળ અને ગુણાકાર દર્શાવતી આકૃતિઓ",
	},
	"દ્વિચલ સુરેખ સમીકરણયુગ્મ": {
		"સમીકરણના ગ્રાફ",
		"કોષ્ટક",
		"રેખાઓના intersection",
	},
	"દ્વિઘાત સમીકરણ": {
		"પેરાબોલાનો ગ્રાફ",
		"વિભિન્ન કેસ માટેના ગ્રાફ (વાસ્તવિક મૂળ, કલ્પિત મૂળ)",
		"વર્ટેક્સ દર્શાવતો ગ્રાફ",
	},
	"સમાન્તર શ્રેણી": {
		"અનુક્રમ દર્શાવતી કોષ્ટક",
		"આનુક્રમિક સંખ્યાઓ દર્શાવતો આલેખ",
	},
	"ત્રિકોણ": {
		"ત્રિકોણની રચના",
		"સમાનતા દર્શાવતી આકૃતિઓ",
		"પ્રમાણ દર્શાવતી આકૃતિઓ",
	},
	"યામ ભૂમિતિ": {
		"અક્ષાંકો પરના બિંદુઓ",
		"અંતર સૂત્ર",
		"વિભાગ સૂત્ર",
		"ત્રિકોણનું ક્ષેત્રફળ દર્શાવતી આકૃતિ",
	},
	"ત્રિકોણમિતિ નો પરિચય": {
		"સમકોણ ત્રિકોણમાં ત્રિકોણમિતીય ગુણોત્તર",
		"યૂનિટ સર્કલ",
	},
	"ત્રિકોણમિતિ ના ઉપયોગો": {
		"ઊંચાઈ અને અંતર દર્શાવતી આકૃતિઓ",
		"કોણ ઉન્નતિ અને અવનીતિ",
	},
	"વર્તુળ": {
		"વર્તુળ",
		"સ્પર્શક",
		"જ્યોતિ",
		"ત્રજ્યા",
	},
	"રચના": {
		"કંપાસથી રચના",
		"કોણ દ્વિભાજક",
		"ત્રિકોણની રચના",
	},
	"વર્તુળ સંબંધિત ક્ષેત્રફળ": {
		"વર્તુળનો ક્ષેત્રફળ",
		"સેક્ટર",
		"સેગમેન્ટ",
	},
	"પૃષ્ઠફળ અને ઘનફળ": {
		"ઘનાકૃતિઓના આલેખ",
		"સિલિન્ડર",
		"શંકુ",
		"ગોળાકાર",
	},
	"આંકડાશાસ્ત્ર": {
		"હિસ્ટોગ્રામ",
		"બાર ચાર્ટ",
		"આવર્તન કોષ્ટક",
		"પાઈ ચાર્ટ",
	},
	"સંભાવના": {
		"સંભાવના વૃક્ષ",
		"પ્રયોગોના આકૃતિઓ",
		"નમૂના સ્થાન",
	},
}

// ChapterHints returns the expected visual kinds for chapter. Unknown
// chapters have none.
func ChapterHints(chapter string) []string {
	return chapterHints[chapter]
}
