package seed

// AllergenSeed is one reference allergen.
type AllergenSeed struct {
	Name        string
	Description string
}

// IngredientSeed is one knowledge-base ingredient with the allergens it contains.
type IngredientSeed struct {
	Name      string
	Category  string
	Synonyms  string
	Allergens []string
}

// MenuCaseSeed is one stored recipe keyed by its base ingredient name.
type MenuCaseSeed struct {
	Base        string
	MenuName    string
	Description string
	Calories    int
	Protein     string
	Carbs       string
	Fat         string
}

var Allergens = []AllergenSeed{
	{"dairy", "Milk and milk products"},
	{"egg", "Chicken, duck and quail eggs"},
	{"fish", "Finned fish"},
	{"gluten", "Gluten-containing cereals"},
	{"peanut", "Peanuts and groundnut products"},
	{"sesame", "Sesame seeds and oil"},
	{"shellfish", "Crustaceans and molluscs"},
	{"soy", "Soybeans and soy products"},
	{"tree nut", "Cashews, almonds and other tree nuts"},
	{"wheat", "Wheat and wheat flour"},
}

var Ingredients = []IngredientSeed{
	{"ayam", "protein", "chicken,ayam kampung,ayam broiler", nil},
	{"daging sapi", "protein", "beef,sapi", nil},
	{"ikan", "protein", "fish,ikan tongkol,ikan kembung,ikan nila", []string{"fish"}},
	{"udang", "protein", "shrimp,prawn,udang rebon", []string{"shellfish"}},
	{"cumi", "protein", "squid,cumi-cumi", []string{"shellfish"}},
	{"telur", "protein", "egg,telur ayam,telur puyuh", []string{"egg"}},
	{"tahu", "protein", "tofu,bean curd", []string{"soy"}},
	{"tempe", "protein", "tempeh", []string{"soy"}},
	{"kedelai", "legume", "soybean,soya,kacang kedelai", []string{"soy"}},
	{"kecap", "condiment", "soy sauce,kecap manis,kecap asin", []string{"soy", "wheat"}},
	{"susu", "dairy", "milk,susu sapi,susu uht", []string{"dairy"}},
	{"keju", "dairy", "cheese,keju cheddar", []string{"dairy"}},
	{"mentega", "dairy", "butter", []string{"dairy"}},
	{"kacang tanah", "legume", "peanut,groundnut,kacang goreng", []string{"peanut"}},
	{"kacang mete", "nut", "cashew,mete", []string{"tree nut"}},
	{"tepung terigu", "grain", "wheat flour,terigu,flour", []string{"wheat", "gluten"}},
	{"roti", "grain", "bread,roti tawar", []string{"wheat", "gluten"}},
	{"mie", "grain", "noodle,mi,mie telur", []string{"wheat", "gluten", "egg"}},
	{"nasi", "grain", "rice,beras,nasi putih", nil},
	{"wijen", "seed", "sesame,minyak wijen", []string{"sesame"}},
	{"bayam", "vegetable", "spinach", nil},
	{"wortel", "vegetable", "carrot", nil},
	{"kentang", "vegetable", "potato", nil},
	{"pisang", "fruit", "banana", nil},
}

var MenuCases = []MenuCaseSeed{
	{"ayam", "Ayam Bakar Madu", "Ayam bakar dengan olesan madu dan nasi putih", 520, "32g", "55g", "16g"},
	{"ayam", "Ayam Goreng Lengkuas", "Ayam goreng bumbu lengkuas dengan lalapan", 560, "30g", "48g", "24g"},
	{"ayam", "Sop Ayam Sayur", "Sup ayam bening dengan wortel dan kentang", 410, "28g", "42g", "10g"},
	{"ayam", "Soto Ayam", "Soto ayam kuah kuning dengan nasi", 480, "27g", "52g", "14g"},
	{"telur", "Telur Balado", "Telur rebus dengan sambal balado", 430, "18g", "50g", "17g"},
	{"telur", "Telur Dadar Sayur", "Telur dadar isi bayam dan wortel", 400, "17g", "46g", "15g"},
	{"telur", "Semur Telur", "Telur rebus dalam kuah semur", 450, "16g", "54g", "18g"},
	{"tahu", "Tahu Bacem", "Tahu bacem manis dengan nasi dan sayur bening", 420, "19g", "58g", "12g"},
	{"tahu", "Tahu Isi Sayur", "Tahu goreng isi sayuran", 440, "18g", "55g", "15g"},
	{"tempe", "Orek Tempe", "Tempe orek kering dengan nasi", 460, "21g", "57g", "16g"},
	{"ikan", "Ikan Bakar Kecap", "Ikan kembung bakar dengan sambal kecap", 470, "29g", "50g", "14g"},
	{"ikan", "Pepes Ikan", "Ikan nila dibungkus daun pisang", 420, "31g", "45g", "11g"},
	{"daging sapi", "Rendang Sapi", "Rendang daging sapi dengan nasi", 610, "34g", "50g", "28g"},
	{"daging sapi", "Semur Daging", "Semur daging sapi dengan kentang", 560, "32g", "52g", "22g"},
	{"udang", "Udang Saus Tomat", "Udang tumis saus tomat dengan nasi", 450, "26g", "54g", "12g"},
}
