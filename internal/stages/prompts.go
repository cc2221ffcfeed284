package stages

import (
	"fmt"
	"strings"
)

func buildDetectionPrompt(chapter string, pageNumber int, hints []string, pageText string) string {
	return fmt.Sprintf(`તમે ધોરણ 10 ગણિતના પાઠ્યપુસ્તકના અધ્યાય "%s" નું પાનું %d વાંચી રહ્યા છો.

આ અધ્યાયમાં સામાન્ય રીતે જોવા મળતી આકૃતિઓ: %s.

નીચેના લખાણને આધારે ઓળખો કે આ પાનામાં કઈ આકૃતિઓ છે.
દરેક માટે સ્પષ્ટ ગુજરાતી વર્ણન અને શૈક્ષણિક હેતુ આપો.

લખાણ:
%s

ફક્ત આ ફોર્મેટમાં JSON return કરો (કોઈ વધારાનો લખાણ નહીં):
[
  {
    "description": "x + y = 5 નું સુરેખ સમીકરણ દર્શાવતો ગ્રાફ જેમાં રેખા (0,5) અને (5,0) પરથી પસાર થાય છે.",
    "educational_context": "વિદ્યાર્થીઓ સમીકરણને ગ્રાફિક રીતે કેવી રીતે રજૂ થાય છે તે સમજી શકે છે."
  }
]
જો આકૃતિ ન હોય તો ખાલી array [] return કરો.`, chapter, pageNumber, strings.Join(hints, ", "), pageText)
}

func buildDescriptionPrompt(objectType string, confidence float64, pageNumber int) string {
	return fmt.Sprintf(`આ ગણિતના ચિત્રનું શૈક્ષણિક વર્ણન ગુજરાતીમાં આપો:

ચિત્રમાં જે દેખાય છે: %s (confidence: %.2f)

સંદર્ભ: વર્ગ 10 ગણિત - Page %d of Class 10 Mathematics textbook

ગુજરાતીમાં શૈક્ષણિક વર્ણન આપો (શું દેખાય છે, કેવા ઉપયોગ માટે છે):`, objectType, confidence, pageNumber)
}

func buildSummaryPrompt(pageText, imageDescriptions string) string {
	return fmt.Sprintf(`તમે વર્ગ 10ના ગણિત વિષયનું પુસ્તક (ગુજરાતી માધ્યમ) નું વિશ્લેષણ કરો છો.
આ પાનાની સામગ્રીનો સારાંશ ગુજરાતીમાં આપો, જેમાં નીચેની બાબતો સમાવેશ કરો:

- મુખ્ય ગણિતીય સંકલ્પનાઓ (Key mathematical concepts)
- સૂત્રો અને નિયમો (Formulas and rules)
- ઉદાહરણો (Examples) - જો કોઈ હોય તો
- કસોટીઓ (Exercises) - જો કોઈ હોય તો
- ચિત્રો/આકૃતિઓ (Diagrams) - જો કોઈ હોય તો

પાનાની સામગ્રી: %s

ચિત્રોની માહિતી: %s

ગુજરાતીમાં સારાંશ આપો:`, pageText, imageDescriptions)
}

func buildChapterPrompt(pageSummaries string) string {
	return fmt.Sprintf(`તમે વર્ગ 10ના ગણિત અધ્યાયનું વિશ્લેષણ કરો છો. તમામ પાનાઓના સારાંશના આધારે નીચેની માહિતી આપો:

પાનાઓના સારાંશ: %s

કૃપા કરીને આપો:

**અધ્યાયનો સંપૂર્ણ સારાંશ:**
[સંપૂર્ણ અધ્યાયનો સારાંશ]

**મુખ્ય વિષયોની યાદી:**
1. [વિષય 1]
2. [વિષય 2]
3. [વિષય 3]

**શીખવાના પરિણામો:**
- [પરિણામ 1]
- [પરિણામ 2]`, pageSummaries)
}

func buildTopicPrompt(pageText, topicsList string) string {
	return fmt.Sprintf(`આ પાનાની સામગ્રી અને વિષયોની યાદીના આધારે, આ પાનાને સંબંધિત વિષયોના નંબર આપો.

નિયમો:
- એક પાનામાં બહુવિધ વિષયો હોઈ શકે
- એક જ વિષય બે વખત ન આવવો જોઈએ
- ફક્ત સૌથી સંબંધિત વિષયો પસંદ કરો

પાનાની સામગ્રી: %s

ઉપલબ્ધ વિષયો:
%s

ફક્ત વિષય નંબરો આપો (comma separated):`, pageText, topicsList)
}
