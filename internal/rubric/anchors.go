package rubric

// Graduated rubric anchors, 10 (best practice) down to 1 (worst).

var dataCollectionRubric = []Anchor{
	{Score: 10, Description: "Only collects data absolutely essential for core service functionality with explicit, granular consent for each data type"},
	{Score: 9, Description: "Collects minimal data necessary for service with clear consent mechanisms and detailed explanations"},
	{Score: 8, Description: "Collects necessary data with some additional functional data, good consent practices"},
	{Score: 7, Description: "Collects reasonable amount of data with adequate consent, some non-essential collection"},
	{Score: 6, Description: "Collects moderate amount of data including some convenience features, basic consent"},
	{Score: 5, Description: "Collects substantial data including analytics and personalization, broad consent categories"},
	{Score: 4, Description: "Collects extensive data for multiple purposes, vague consent mechanisms"},
	{Score: 3, Description: "Collects broad data categories with minimal user control or unclear purposes"},
	{Score: 2, Description: "Collects excessive data with poor justification and limited consent options"},
	{Score: 1, Description: "Collects extensive personal data without clear necessity, consent, or user awareness"},
}

var dataSharingRubric = []Anchor{
	{Score: 10, Description: "No data sharing with third parties, or only with explicit opt-in consent for each recipient"},
	{Score: 9, Description: "Very limited sharing only with essential service providers, clear user control"},
	{Score: 8, Description: "Shares only with trusted partners for core functionality, good transparency"},
	{Score: 7, Description: "Limited sharing with partners, clear disclosure and some user control"},
	{Score: 6, Description: "Moderate sharing with business partners, adequate disclosure"},
	{Score: 5, Description: "Shares data with various partners for business purposes, basic disclosure"},
	{Score: 4, Description: "Broad sharing with multiple categories of partners, limited user control"},
	{Score: 3, Description: "Extensive sharing for marketing and analytics with poor user control"},
	{Score: 2, Description: "Widespread sharing with minimal disclosure or consent"},
	{Score: 1, Description: "Unrestricted data sharing with third parties without meaningful user consent or disclosure"},
}

var dataRetentionRubric = []Anchor{
	{Score: 10, Description: "Strong encryption, minimal retention periods, automatic deletion, comprehensive security measures"},
	{Score: 9, Description: "Excellent security practices, clear retention limits, user-controlled deletion"},
	{Score: 8, Description: "Good security measures, reasonable retention periods, deletion options available"},
	{Score: 7, Description: "Adequate security practices, defined retention periods, some deletion capabilities"},
	{Score: 6, Description: "Basic security measures, moderate retention periods, limited deletion options"},
	{Score: 5, Description: "Standard security practices, long but defined retention periods"},
	{Score: 4, Description: "Minimal security details, vague retention periods, difficult deletion process"},
	{Score: 3, Description: "Poor security transparency, indefinite retention mentioned, no deletion options"},
	{Score: 2, Description: "Inadequate security measures, permanent data retention, no user control"},
	{Score: 1, Description: "No meaningful security measures, indefinite retention without user recourse"},
}

var userRightsRubric = []Anchor{
	{Score: 10, Description: "Comprehensive user rights including access, correction, deletion, portability, and granular privacy controls"},
	{Score: 9, Description: "Strong user rights with easy-to-use tools for data management and privacy controls"},
	{Score: 8, Description: "Good user rights including access, correction, and deletion with clear processes"},
	{Score: 7, Description: "Basic user rights with functional but limited tools for data control"},
	{Score: 6, Description: "Some user rights available but with restrictions or complex procedures"},
	{Score: 5, Description: "Limited user rights, basic access and deletion available with effort"},
	{Score: 4, Description: "Minimal user rights, difficult processes, long response times"},
	{Score: 3, Description: "Very limited rights, cumbersome procedures, poor responsiveness"},
	{Score: 2, Description: "Barely functional user rights, significant barriers to data control"},
	{Score: 1, Description: "No meaningful user rights or control over personal data"},
}

var transparencyRubric = []Anchor{
	{Score: 10, Description: "Crystal clear language, comprehensive explanations, easy navigation, regular updates communicated"},
	{Score: 9, Description: "Very clear and accessible language, well-organized content, good update practices"},
	{Score: 8, Description: "Clear language with minimal jargon, logical organization, adequate update notifications"},
	{Score: 7, Description: "Generally clear with some technical terms, reasonable organization"},
	{Score: 6, Description: "Moderately clear but includes jargon, basic organization, some unclear sections"},
	{Score: 5, Description: "Mixed clarity with technical language, confusing organization in places"},
	{Score: 4, Description: "Difficult to understand, heavy use of legal jargon, poor organization"},
	{Score: 3, Description: "Very unclear language, confusing structure, important information buried"},
	{Score: 2, Description: "Extremely difficult to understand, deliberately obfuscated, poor accessibility"},
	{Score: 1, Description: "Incomprehensible or deliberately misleading language, no meaningful transparency"},
}
