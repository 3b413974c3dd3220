package vision

// Instruction is sent with every card image.
const Instruction = `Analyze this Indian government ID card image (Aadhaar, PAN, Voter ID, etc.) and extract the following information.
Return ONLY a JSON object with these exact keys (use null for missing values):
{
    "firstName": "first name",
    "lastName": "last name or surname",
    "dateOfBirth": "YYYY-MM-DD format",
    "gender": "Male or Female",
    "phone": "phone number if visible",
    "identifier": "12 digit aadhaar number if visible (numbers only, no spaces)"
}

Important:
- For Aadhaar cards, extract the full 12-digit number
- Date should be in YYYY-MM-DD format
- Return valid JSON only, no markdown or extra text`
