package i18n

// Message keys shared by the HTTP and terminal surfaces.
const (
	KeyAlreadyRegistered   = "signup.already_registered"
	KeyUnexpectedError     = "signup.unexpected_error"
	KeySubmitting          = "signup.submitting"
	KeyConfirmEmailTitle   = "signup.confirm_email.title"
	KeyConfirmEmailBody    = "signup.confirm_email.body"
	KeyConfirmEmailSpam    = "signup.confirm_email.spam"
	KeyStepBlocked         = "wizard.step_blocked"
	KeyInvalidProductLink  = "wizard.product.invalid_link"
	KeyValidProductLink    = "wizard.product.valid_link"
	KeyPasswordWeak        = "password.weak"
	KeyPasswordMedium      = "password.medium"
	KeyPasswordStrong      = "password.strong"
	KeyRuleLength          = "password.rule.length"
	KeyRuleUpper           = "password.rule.upper"
	KeyRuleLower           = "password.rule.lower"
	KeyRuleDigit           = "password.rule.digit"
	KeyRuleSymbol          = "password.rule.symbol"
	KeyTemplateBlank       = "templates.blank"
	KeyWelcomeEmailSubject = "email.welcome.subject"
	KeyWelcomeEmailBody    = "email.welcome.body"
	KeyConfirmEmailSubject = "email.confirm.subject"
	KeyConfirmEmailMessage = "email.confirm.body"

	KeyPromptProductLink = "prompt.product_link"
	KeyPromptTone        = "prompt.tone"
	KeyPromptColor       = "prompt.color"
	KeyPromptShopName    = "prompt.shop_name"
	KeyPromptNiche       = "prompt.niche"
	KeyPromptFullName    = "prompt.full_name"
	KeyPromptEmail       = "prompt.email"
	KeyPromptCountry     = "prompt.country"
	KeyPromptPhone       = "prompt.phone"
	KeyPromptPassword    = "prompt.password"
	KeyPromptNext        = "prompt.next"
	KeyPromptBack        = "prompt.back"
	KeyPromptSubmit      = "prompt.submit"
	KeyPromptTemplate    = "prompt.template"
	KeyStepHeader        = "prompt.step_header"
	KeyHandoff           = "prompt.handoff"
)

var french = map[string]string{
	KeyAlreadyRegistered:   "Cet email est déjà utilisé. Connectez-vous ou utilisez une autre adresse.",
	KeyUnexpectedError:     "Une erreur inattendue est survenue. Veuillez réessayer.",
	KeySubmitting:          "Création en cours...",
	KeyConfirmEmailTitle:   "Compte créé avec succès !",
	KeyConfirmEmailBody:    "Veuillez vérifier votre email pour confirmer votre inscription.",
	KeyConfirmEmailSpam:    "Pensez à vérifier vos spams si vous ne le recevez pas dans quelques minutes.",
	KeyStepBlocked:         "Complétez cette étape pour continuer.",
	KeyInvalidProductLink:  "Veuillez entrer un lien valide depuis AliExpress, Amazon ou Alibaba",
	KeyValidProductLink:    "Lien valide détecté !",
	KeyPasswordWeak:        "Mot de passe faible",
	KeyPasswordMedium:      "Mot de passe moyen",
	KeyPasswordStrong:      "Mot de passe fort",
	KeyRuleLength:          "Au moins 8 caractères",
	KeyRuleUpper:           "Une lettre majuscule",
	KeyRuleLower:           "Une lettre minuscule",
	KeyRuleDigit:           "Un chiffre",
	KeyRuleSymbol:          "Un caractère spécial (!@#$...)",
	KeyTemplateBlank:       "Canvas vide",
	KeyWelcomeEmailSubject: "Bienvenue sur AfriShop, %s !",
	KeyWelcomeEmailBody:    "Votre boutique %s est prête à être personnalisée.",
	KeyConfirmEmailSubject: "Confirmez votre adresse email",
	KeyConfirmEmailMessage: "Cliquez sur le lien ci-dessous pour confirmer l'adresse %s :",
	KeyPromptProductLink:   "Lien du produit (AliExpress, Amazon ou Alibaba)",
	KeyPromptTone:          "Ton de votre marque",
	KeyPromptColor:         "Couleur principale",
	KeyPromptShopName:      "Nom de la boutique",
	KeyPromptNiche:         "Catégorie de produits",
	KeyPromptFullName:      "Nom complet",
	KeyPromptEmail:         "Email",
	KeyPromptCountry:       "Pays",
	KeyPromptPhone:         "Téléphone (%s)",
	KeyPromptPassword:      "Mot de passe",
	KeyPromptNext:          "Suivant",
	KeyPromptBack:          "Retour",
	KeyPromptSubmit:        "Créer ma boutique",
	KeyPromptTemplate:      "Choisissez un modèle",
	KeyStepHeader:          "Étape %d/%d : %s",
	KeyHandoff:             "Redirection vers %s",
}

var english = map[string]string{
	KeyAlreadyRegistered:   "This email is already in use. Sign in or use another address.",
	KeyUnexpectedError:     "An unexpected error occurred. Please try again.",
	KeySubmitting:          "Creating your shop...",
	KeyConfirmEmailTitle:   "Account created!",
	KeyConfirmEmailBody:    "Please check your inbox to confirm your signup.",
	KeyConfirmEmailSpam:    "Check your spam folder if it has not arrived within a few minutes.",
	KeyStepBlocked:         "Complete this step to continue.",
	KeyInvalidProductLink:  "Please enter a valid AliExpress, Amazon or Alibaba link",
	KeyValidProductLink:    "Valid link detected!",
	KeyPasswordWeak:        "Weak password",
	KeyPasswordMedium:      "Medium password",
	KeyPasswordStrong:      "Strong password",
	KeyRuleLength:          "At least 8 characters",
	KeyRuleUpper:           "One uppercase letter",
	KeyRuleLower:           "One lowercase letter",
	KeyRuleDigit:           "One digit",
	KeyRuleSymbol:          "One special character (!@#$...)",
	KeyTemplateBlank:       "Blank canvas",
	KeyWelcomeEmailSubject: "Welcome to AfriShop, %s!",
	KeyWelcomeEmailBody:    "Your shop %s is ready to be customised.",
	KeyConfirmEmailSubject: "Confirm your email address",
	KeyConfirmEmailMessage: "Click the link below to confirm %s:",
	KeyPromptProductLink:   "Product link (AliExpress, Amazon or Alibaba)",
	KeyPromptTone:          "Brand tone",
	KeyPromptColor:         "Main colour",
	KeyPromptShopName:      "Shop name",
	KeyPromptNiche:         "Product category",
	KeyPromptFullName:      "Full name",
	KeyPromptEmail:         "Email",
	KeyPromptCountry:       "Country",
	KeyPromptPhone:         "Phone (%s)",
	KeyPromptPassword:      "Password",
	KeyPromptNext:          "Next",
	KeyPromptBack:          "Back",
	KeyPromptSubmit:        "Create my shop",
	KeyPromptTemplate:      "Pick a template",
	KeyStepHeader:          "Step %d/%d: %s",
	KeyHandoff:             "Redirecting to %s",
}
