// Package locale holds the user-facing strings for both supported languages.
package locale

import "grant_finder/pkg/models"

// Strings is one language's table.
type Strings struct {
	AppTitle    string
	AppTagline  string
	SearchLabel string
	Placeholder string
	SearchBtn   string
	Searching   string
	SwitchLang  string
	QuickSearch string
	Tags        [4]string

	DefaultQuery     string
	ReportFailed     string
	VerifiedSource   string
	DefaultTitle     string
	DefaultSubtitle  string
	UnexpectedError  string
	LoadingTitle     string
	LoadingBody      string
	DeepThinking     string
	KeyRequiredTitle string
	KeyRequiredBody  string
	BillingDocs      string
	SelectKey        string
	KeyInputLabel    string
	StalledTitle     string
	ReturnToSearch   string

	ErrEntityNotFound string
	ErrPermission     string
	ErrTimeout        string
	ErrUnknown        string
	ErrNoKey          string
	ErrPDF            string

	Compiled     string
	Version      string
	Status       string
	LiveData     string
	InternalDoc  string
	Save         string
	New          string
	Print        string
	Generating   string
	Sources      string
	OfficialRec  string
	FooterTitle  string
	FooterDesc   string
	Notice       string
	FeatureCards [3][2]string
}

var english = Strings{
	AppTitle:    "Yemen Grant Finder",
	AppTagline:  "Humanitarian Intelligence",
	SearchLabel: "What funding are you looking for?",
	Placeholder: "e.g. WASH grants for local NGOs in Taiz",
	SearchBtn:   "Search",
	Searching:   "Searching...",
	SwitchLang:  "العربية",
	QuickSearch: "Quick Search: All Active Grants",
	Tags:        [4]string{"Emergency Relief", "YHF Allocation", "Health Funding", "Local NGO Support"},

	DefaultQuery:     "all recent open grants",
	ReportFailed:     "Report generation failed.",
	VerifiedSource:   "Verified Source",
	DefaultTitle:     "Funding Report",
	DefaultSubtitle:  "Yemen Donor Landscape",
	UnexpectedError:  "An unexpected error occurred.",
	LoadingTitle:     "Searching Live Sources",
	LoadingBody:      "Scanning various donors including government agencies, international organizations, and private foundations for the latest open opportunities.",
	DeepThinking:     "Advanced Deep Thinking Active",
	KeyRequiredTitle: "API Key Required for Search",
	KeyRequiredBody:  "Using advanced search tools requires selecting a valid API key from a paid project to avoid permission restrictions.",
	BillingDocs:      "View Billing Documentation",
	SelectKey:        "Select API Key",
	KeyInputLabel:    "Gemini API key",
	StalledTitle:     "Research Engine Stalled",
	ReturnToSearch:   "Return to Search",

	ErrEntityNotFound: "Requested entity was not found: Please ensure you have selected a valid API key associated with an active billing project.",
	ErrPermission:     "Permission Denied (403): Please ensure you have selected a valid API key with Search permissions.",
	ErrTimeout:        "Search Engine Error (500): The request timed out. Please try again with a simpler query.",
	ErrUnknown:        "Research engine encountered an unknown error. Please try again later.",
	ErrNoKey:          "API Key not found. Please select a valid API key.",
	ErrPDF:            "Could not generate PDF. Please try the Print option.",

	Compiled:    "COMPILED",
	Version:     "VERSION",
	Status:      "STATUS",
	LiveData:    "LIVE DATA",
	InternalDoc: "Internal Research Document",
	Save:        "SAVE",
	New:         "NEW",
	Print:       "PRINT",
	Generating:  "GEN...",
	Sources:     "Verified Data Sources",
	OfficialRec: "Official Record",
	FooterTitle: "Yemen Grant Finder",
	FooterDesc:  "Automated Humanitarian Intelligence Infrastructure",
	Notice:      "NOTICE: This briefing report is dynamically compiled from live data sources. While every effort is made to ensure accuracy, organizations are advised to perform internal due diligence.",
	FeatureCards: [3][2]string{
		{"Active Intelligence", "Aggregated data from 50+ donor portals and social media specifically for Yemen."},
		{"Direct Access", "Every report includes verified links directly to the call for proposals or application systems."},
		{"Ready to Use", "Clean, formatted outputs designed for easy distribution among technical teams."},
	},
}

var arabic = Strings{
	AppTitle:    "مستكشف المنح في اليمن",
	AppTagline:  "ذكاء العمل الإنساني",
	SearchLabel: "ما نوع التمويل الذي تبحث عنه؟",
	Placeholder: "مثال: منح المياه والإصحاح للمنظمات المحلية في تعز",
	SearchBtn:   "بحث",
	Searching:   "جاري البحث...",
	SwitchLang:  "English",
	QuickSearch: "بحث سريع: جميع المنح النشطة",
	Tags:        [4]string{"إغاثة طارئة", "تخصيص صندوق اليمن الإنساني", "تمويل الصحة", "دعم المنظمات المحلية"},

	DefaultQuery:     "جميع المنح المفتوحة الحديثة",
	ReportFailed:     "لا يمكن إنشاء تقرير حالياً.",
	VerifiedSource:   "مصدر موثق",
	DefaultTitle:     "تقرير التمويل",
	DefaultSubtitle:  "مشهد المانحين في اليمن",
	UnexpectedError:  "حدث خطأ غير متوقع.",
	LoadingTitle:     "جاري البحث في المصادر الحية",
	LoadingBody:      "جاري مسح المانحين المختلفين بما في ذلك الوكالات الحكومية، والمنظمات الدولية، وتبرعات الشركات الخاصة والمؤسسات بحثاً عن أحدث الفرص المفتوحة.",
	DeepThinking:     "التفكير العميق المتقدم نشط",
	KeyRequiredTitle: "مفتاح API مطلوب للبحث",
	KeyRequiredBody:  "استخدام أدوات البحث المتقدمة يتطلب اختيار مفتاح API صالح من مشروع مدفوع لتجنب قيود الصلاحيات.",
	BillingDocs:      "عرض وثائق الفوترة",
	SelectKey:        "اختيار مفتاح API",
	KeyInputLabel:    "مفتاح Gemini API",
	StalledTitle:     "توقف محرك البحث",
	ReturnToSearch:   "العودة للبحث",

	ErrEntityNotFound: "لم يتم العثور على الكيان المطلوب: يرجى التأكد من اختيار مفتاح API صالح ومرتبط بمشروع فوترة نشط.",
	ErrPermission:     "خطأ في التصريح (403): يرجى التأكد من اختيار مفتاح API صالح لديه صلاحيات البحث.",
	ErrTimeout:        "خطأ في خادم البحث (500): طلب البحث كان ثقيلاً جداً. يرجى المحاولة مرة أخرى باستخدام استعلام أبسط.",
	ErrUnknown:        "واجه محرك البحث خطأ غير معروف. يرجى المحاولة لاحقاً.",
	ErrNoKey:          "لم يتم العثور على مفتاح API. يرجى اختيار مفتاح صالح.",
	ErrPDF:            "تعذر إنشاء ملف PDF. يرجى محاولة استخدام خيار الطباعة.",

	Compiled:    "تاريخ التجميع",
	Version:     "الإصدار",
	Status:      "الحالة",
	LiveData:    "بيانات حية",
	InternalDoc: "وثيقة بحث داخلية",
	Save:        "حفظ",
	New:         "جديد",
	Print:       "طباعة",
	Generating:  "جاري...",
	Sources:     "مصادر البيانات الموثقة",
	OfficialRec: "سجل رسمي",
	FooterTitle: "مستكشف المنح في اليمن",
	FooterDesc:  "بنية تحتية مؤتمتة لذكاء العمل الإنساني",
	Notice:      "تنبيه: يتم تجميع تقرير الإحاطة هذا ديناميكياً من مصادر البيانات الحية. في حين يتم بذل كل جهد لضمان الدقة، تُنصح المنظمات بإجراء العناية الواجبة الخاصة بها.",
	FeatureCards: [3][2]string{
		{"ذكاء نشط", "بيانات مجمعة من أكثر من 50 بوابة مانحين رئيسية ووسائل التواصل الاجتماعي خصيصاً لليمن."},
		{"وصول مباشر", "يتضمن كل تقرير روابط موثقة مباشرة إلى دعوة تقديم المقترحات أو أنظمة التقديم."},
		{"جاهز للاستخدام", "مخرجات نظيفة ومنسقة مصممة لسهولة التوزيع بين الفرق التقنية."},
	},
}

// For returns the string table for lang. Unknown tags get the default
// language's table.
func For(lang models.Language) *Strings {
	if models.ParseLanguage(string(lang)) == models.LangArabic {
		return &arabic
	}
	return &english
}
