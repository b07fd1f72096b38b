// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

// Key identifies a message in the translation catalogue.
type Key string

// Navigation.
const (
	KeyNavHome        Key = "nav.home"
	KeyNavProducts    Key = "nav.products"
	KeyNavDevices     Key = "nav.devices"
	KeyNavAccessories Key = "nav.accessories"
	KeyNavBundles     Key = "nav.bundles"
	KeyNavAdmin       Key = "nav.admin"
	KeyNavCart        Key = "nav.cart"
)

// General.
const (
	KeyLanguage        Key = "language"
	KeySwitchToHebrew  Key = "switchToHebrew"
	KeySwitchToEnglish Key = "switchToEnglish"
	KeyInStock         Key = "inStock"
	KeyOutOfStock      Key = "outOfStock"
	KeyNotFoundTitle   Key = "notFound.title"
	KeyNotFoundText    Key = "notFound.text"
	KeyNotFoundBack    Key = "notFound.back"
	KeyInvalidLanguage Key = "error.invalidLanguage"
)

// Home page.
const (
	KeyHeroTitle          Key = "hero.title1"
	KeyHeroSubtitle       Key = "hero.subtitle"
	KeyHeroCTAProducts    Key = "hero.cta.products"
	KeyHeroCTAFlagship    Key = "hero.cta.flagship"
	KeyHeroFlagshipTitle  Key = "hero.flagship.title"
	KeyHeroFeatureSub1    Key = "hero.feature.sub1"
	KeyHeroFeatureNFC     Key = "hero.feature.nfc"
	KeyHeroFeatureIR      Key = "hero.feature.ir"
	KeyHeroFeatureOS      Key = "hero.feature.os"
	KeyHeroSpecsSunLCD    Key = "hero.specs.sunlcd"
	KeyFeaturedTitle      Key = "featured.title"
	KeyFeaturedOrder      Key = "featured.order"
	KeyFeaturedEmpty      Key = "featured.empty"
	KeyAboutTitle         Key = "about.title"
	KeyAboutParagraph1    Key = "about.paragraph1"
	KeyAboutParagraph2    Key = "about.paragraph2"
	KeyAboutFeatureSub1   Key = "about.feature.sub1"
	KeyAboutFeatureRFID   Key = "about.feature.rfid"
	KeyAboutFeatureNFC    Key = "about.feature.nfc"
	KeyAboutFeatureIR     Key = "about.feature.ir"
	KeyAboutFeatureButton Key = "about.feature.ibutton"
	KeyAboutFeatureGPIO   Key = "about.feature.gpio"
	KeyAboutFeatureUSB    Key = "about.feature.usb"
	KeyAboutFeatureBT     Key = "about.feature.bt"
)

// Footer.
const (
	KeyFooterCompany    Key = "footer.company"
	KeyFooterSubtitle   Key = "footer.subtitle"
	KeyFooterContact    Key = "footer.contact"
	KeyFooterEmail      Key = "footer.email"
	KeyFooterWhatsApp   Key = "footer.whatsapp"
	KeyFooterHours      Key = "footer.hours"
	KeyFooterPrivacy    Key = "footer.privacy"
	KeyFooterTerms      Key = "footer.terms"
	KeyFooterCopyright  Key = "footer.copyright"
	KeyFooterContactCTA Key = "footer.contact.cta"
	KeyFooterQuickLinks Key = "footer.quickLinks"
)

// Catalogue, product detail and cart.
const (
	KeyProductsTitle        Key = "products.title"
	KeyProductsEmpty        Key = "products.empty"
	KeyProductsViewDetails  Key = "products.viewDetails"
	KeyProductsSpecs        Key = "products.specifications"
	KeyProductsRelated      Key = "products.related"
	KeyProductsBack         Key = "products.back"
	KeyCategoryDevice       Key = "category.device"
	KeyCategoryAccessory    Key = "category.accessory"
	KeyCategoryBundle       Key = "category.bundle"
	KeyCartTitle            Key = "cart.title"
	KeyCartEmpty            Key = "cart.empty"
	KeyCartContinue         Key = "cart.continue"
	KeyWhatsAppGeneric      Key = "whatsapp.message.generic"
	KeyWhatsAppProduct      Key = "whatsapp.message.product"
	KeyWhatsAppButtonLabel  Key = "whatsapp.button"
	KeyBreadcrumbNavigation Key = "breadcrumb.label"
)

// Admin console.
const (
	KeyAdminDashboard          Key = "admin.dashboard"
	KeyAdminProducts           Key = "admin.products"
	KeyAdminSettings           Key = "admin.settings"
	KeyAdminLogout             Key = "admin.logout"
	KeyAdminPortal             Key = "admin.portal"
	KeyAdminSignin             Key = "admin.signin"
	KeyAdminEmail              Key = "admin.email"
	KeyAdminPassword           Key = "admin.password"
	KeyAdminLogin              Key = "admin.login"
	KeyAdminSigningIn          Key = "admin.signingIn"
	KeyAdminWelcomeBack        Key = "admin.welcomeBack"
	KeyAdminTotalProducts      Key = "admin.totalProducts"
	KeyAdminProductsInStock    Key = "admin.productsInStock"
	KeyAdminProductsOutOfStock Key = "admin.productsOutOfStock"
	KeyAdminTotalVisitors      Key = "admin.totalVisitors"
	KeyAdminVisitorTrends      Key = "admin.visitorTrends"
	KeyAdminMostViewed         Key = "admin.mostViewedProducts"
	KeyAdminRecentEvents       Key = "admin.recentEvents"
	KeyAdminAddProduct         Key = "admin.addProduct"
	KeyAdminEditProduct        Key = "admin.editProduct"
	KeyAdminDeleteProduct      Key = "admin.deleteProduct"
	KeyAdminSearchProducts     Key = "admin.searchProducts"
	KeyAdminName               Key = "admin.name"
	KeyAdminNameEN             Key = "admin.nameEn"
	KeyAdminNameHE             Key = "admin.nameHe"
	KeyAdminPrice              Key = "admin.price"
	KeyAdminCategory           Key = "admin.category"
	KeyAdminStatus             Key = "admin.status"
	KeyAdminActions            Key = "admin.actions"
	KeyAdminFeatured           Key = "admin.featured"
	KeyAdminShortDescription   Key = "admin.shortDescription"
	KeyAdminDescription        Key = "admin.description"
	KeyAdminSlug               Key = "admin.slug"
	KeyAdminSlugDesc           Key = "admin.slugDesc"
	KeyAdminImages             Key = "admin.images"
	KeyAdminSpecifications     Key = "admin.specifications"
	KeyAdminSave               Key = "admin.save"
	KeyAdminCancel             Key = "admin.cancel"
	KeyAdminFeaturedSettings   Key = "admin.featuredSettings"
	KeyAdminLoginFailed        Key = "admin.loginFailed"
	KeyAdminInvalidEmail       Key = "admin.invalidEmail"
	KeyAdminInvalidCreds       Key = "admin.invalidCredentials"
	KeyAdminServiceError       Key = "admin.serviceError"
	KeyAdminLoginSuccessful    Key = "admin.loginSuccessful"
	KeyAdminAuthError          Key = "admin.authError"
	KeyAdminLoggedOut          Key = "admin.loggedOut"
	KeyAdminProductSaved       Key = "admin.productSaved"
	KeyAdminProductDeleted     Key = "admin.productDeleted"
	KeyAdminProductNotFound    Key = "admin.productNotFound"
	KeyAdminSettingsSaved      Key = "admin.settingsSaved"
	KeyAdminTooManyAttempts    Key = "admin.tooManyAttempts"
)

// AllKeys returns every key the application renders.
func AllKeys() []Key {
	return []Key{
		KeyNavHome, KeyNavProducts, KeyNavDevices, KeyNavAccessories, KeyNavBundles, KeyNavAdmin, KeyNavCart,

		KeyLanguage, KeySwitchToHebrew, KeySwitchToEnglish, KeyInStock, KeyOutOfStock,
		KeyNotFoundTitle, KeyNotFoundText, KeyNotFoundBack, KeyInvalidLanguage,

		KeyHeroTitle, KeyHeroSubtitle, KeyHeroCTAProducts, KeyHeroCTAFlagship, KeyHeroFlagshipTitle,
		KeyHeroFeatureSub1, KeyHeroFeatureNFC, KeyHeroFeatureIR, KeyHeroFeatureOS, KeyHeroSpecsSunLCD,
		KeyFeaturedTitle, KeyFeaturedOrder, KeyFeaturedEmpty,
		KeyAboutTitle, KeyAboutParagraph1, KeyAboutParagraph2, KeyAboutFeatureSub1, KeyAboutFeatureRFID,
		KeyAboutFeatureNFC, KeyAboutFeatureIR, KeyAboutFeatureButton, KeyAboutFeatureGPIO,
		KeyAboutFeatureUSB, KeyAboutFeatureBT,

		KeyFooterCompany, KeyFooterSubtitle, KeyFooterContact, KeyFooterEmail, KeyFooterWhatsApp,
		KeyFooterHours, KeyFooterPrivacy, KeyFooterTerms, KeyFooterCopyright, KeyFooterContactCTA,
		KeyFooterQuickLinks,

		KeyProductsTitle, KeyProductsEmpty, KeyProductsViewDetails, KeyProductsSpecs, KeyProductsRelated,
		KeyProductsBack, KeyCategoryDevice, KeyCategoryAccessory, KeyCategoryBundle,
		KeyCartTitle, KeyCartEmpty, KeyCartContinue,
		KeyWhatsAppGeneric, KeyWhatsAppProduct, KeyWhatsAppButtonLabel, KeyBreadcrumbNavigation,

		KeyAdminDashboard, KeyAdminProducts, KeyAdminSettings, KeyAdminLogout, KeyAdminPortal,
		KeyAdminSignin, KeyAdminEmail, KeyAdminPassword, KeyAdminLogin, KeyAdminSigningIn,
		KeyAdminWelcomeBack, KeyAdminTotalProducts, KeyAdminProductsInStock, KeyAdminProductsOutOfStock,
		KeyAdminTotalVisitors, KeyAdminVisitorTrends, KeyAdminMostViewed, KeyAdminRecentEvents,
		KeyAdminAddProduct, KeyAdminEditProduct, KeyAdminDeleteProduct, KeyAdminSearchProducts,
		KeyAdminName, KeyAdminNameEN, KeyAdminNameHE, KeyAdminPrice, KeyAdminCategory, KeyAdminStatus,
		KeyAdminActions, KeyAdminFeatured, KeyAdminShortDescription, KeyAdminDescription, KeyAdminSlug,
		KeyAdminSlugDesc, KeyAdminImages, KeyAdminSpecifications, KeyAdminSave, KeyAdminCancel,
		KeyAdminFeaturedSettings, KeyAdminLoginFailed, KeyAdminInvalidEmail, KeyAdminInvalidCreds,
		KeyAdminServiceError, KeyAdminLoginSuccessful, KeyAdminAuthError, KeyAdminLoggedOut,
		KeyAdminProductSaved, KeyAdminProductDeleted, KeyAdminProductNotFound, KeyAdminSettingsSaved,
		KeyAdminTooManyAttempts,
	}
}
