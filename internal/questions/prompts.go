package questions

import "fmt"

func buildExamplePrompt(chapter string, page int, text string) string {
	return fmt.Sprintf(`તમે ધોરણ 10 ગણિતના અધ્યાય "%s" ના પાના %d માંથી **ઉદાહરણો** શોધી રહ્યા છો.

દરેક ઉદાહરણ માટે:
1. **example_number**: "ઉદાહરણ 19" વગેરે
2. **question**: મૂળ સમસ્યા/પ્રશ્ન
3. **answer**: અંતિમ જવાબ (આંકડાકીય મૂલ્યો સાથે - જેમ કે x = 8, y = 3)
4. **explanation**: સંપૂર્ણ ઉકેલની પદ્ધતિ (પગલા દ્વારા)

**મહત્વપૂર્ણ સૂચનાઓ:**
- "ઉકેલ:", "જવાબ:", "∴" પછી આવતો ભાગ એ અંતિમ જવાબ છે
- સમીકરણો અને ગણતરીઓ explanation માં સામેલ કરો
- Answer માં ચોક્કસ આંકડાકીય મૂલ્યો આપો, પ્રશ્ન પુનરાવર્તન નહીં

પાનાનું ટેક્સ્ટ:
%s

JSON ફોર્મેટ:
[
{
    "example_number": "ઉદાહરણ 19",
    "question": "એક હોડી નદીના સામા પ્રવાહે 30 કિમી અને પ્રવાહની દિશામાં 44 કિમી અંતર 10 કલાકમાં કાપે છે...",
    "answer": "હોડીની સ્થિર પાણીમાં ઝડપ = 8 કિમી/કલાક, નદીના પ્રવાહની ઝડપ = 3 કિમી/કલાક",
    "explanation": "ધારો કે હોડીની સ્થિર પાણીમાં ઝડપ x કિમી/કલાક અને પ્રવાહની ઝડપ y કિમી/કલાક છે. સમીકરણો: 30/(x-y) + 44/(x+y) = 10...",
    "question_type": "Long Answer",
    "mentioned_visuals": [
    {
        "type": "કોષ્ટક/આકૃતિ/ચિત્ર",
        "reference": "કોષ્ટક 3.1",
        "context": "શા માટે જરૂરી છે"
    }
    ]
}
]

જો કોઈ ઉદાહરણ ન હોય તો [] આપો.`, chapter, page, text)
}

func buildExercisePrompt(page int, text string, types string) string {
	return fmt.Sprintf(`તમે ધોરણ 10 ગુજરાતી માધ્યમના ગણિત પાઠ્યપુસ્તકમાંથી **ફક્ત સ્વાધ્યાય/અભ્યાસ વિભાગના** પ્રશ્નો કાઢી રહ્યા છો.

**JSON આઉટપુટ ફરજિયાત નિયમો:**
- તમારો જવાબ માત્ર JSON format માં હોવો જોઈએ
- Explanation field માં line breaks (\n) ન વાપરો
- Mathematical equations અને symbols વાપરી શકો છો (x=3, y=2, +, -, =, etc.)
- ફક્ત new lines અને tabs ટાળો

**મહત્વપૂર્ણ નિયમો:**
1. ફક્ત "સ્વાધ્યાય X.Y" અથવા "અભ્યાસ X.Y" હેડિંગ પછીના પ્રશ્નો જ કાઢો
2. દરેક પ્રશ્ન માટે **ફરજિયાત** સંપૂર્ણ જવાબ અને સ્પષ્ટીકરણ આપો
3. Exercise number ચોક્કસ શોધીને બહાર કાઢો
4. **ઉપપ્રશ્ન બનાવતી વખતે મુખ્ય પ્રશ્નનો સંદર્ભ જોડો**

**ઉપપ્રશ્ન નિયમો - અતિ મહત્વપૂર્ણ:**
- મુખ્ય પ્રશ્ન: "નીચેના સમીકરણયુગ્મ હલ કરો:"
- ઉપપ્રશ્ન (i): "x + y = 5, x - y = 1"
- **સંપૂર્ણ પ્રશ્ન બનાવો**: "નીચેના સમીકરણયુગ્મ હલ કરો: x + y = 5, x - y = 1"
- **માત્ર equations જ ન લખો** - હંમેશા મુખ્ય instruction સાથે જોડો

**Answer ફીલ્ડ:**
- માત્ર અંતિમ પરિણામ લખો (જેમ કે: "x = 3, y = 2")

**Explanation ફીલ્ડ:**
- પગલાવાર ગાણિતિક ઉકેલ એક continuous text માં લખો
- Mathematical equations સાચવી રાખો
- પગલાઓ વચ્ચે "પછી" અથવા "અને" વાપરો

**9 પ્રશ્ન પ્રકારો:**
%s

પાનાનું લખાણ:
%s

**ફક્ત નીચેના JSON ફોર્મેટ માં આપો:**
[{"exercise_number": "3.1", "page_number": %d, "original_question_number": "1", "sub_question_number": "i", "question_text": "નીચેના સમીકરણયુગ્મ હલ કરો: x + y = 5 અને x - y = 1", "question_type": "Short Answer – II (SA-II)", "answer": "x = 3, y = 2", "explanation": "આપેલ x + y = 5 અને x - y = 1, બંને સમીકરણ ઉમેરતાં 2x = 6 તેથી x = 3, પછી x = 3 પ્રથમ સમીકરણમાં મૂકતાં 3 + y = 5 તેથી y = 2, આ ઉમેરવાની પદ્ધતિ છે.", "marks_estimate": 3, "difficulty": "Medium", "mentioned_visuals": []}]

**ચેતવણી:**
- Mathematical equations જાળવી રાખો
- ફક્ત line breaks ટાળો, equations નહીં
- જો કોઈ સ્વાધ્યાય વિભાગ ન હોય તો માત્ર [] આપો
- **ઉપપ્રશ્નો માં હંમેશા મુખ્ય instruction શામેલ કરો**`, types, text, page)
}
