package chat

// Fixed user-facing messages. The quota and apology texts are deliberately
// constant: once a session is over budget every response is byte-identical,
// and collaborator failures are never surfaced as protocol errors.
const (
	GreetingMessage = "Hello! I'm an AI assistant for Wing Heights Ghana Insurance. How can I help you today?"

	QuotaExceededMessage = "I apologize, but you have reached the maximum token limit for this conversation. " +
		"Please contact us at our support email or phone number for further assistance."

	ApologyMessage = "I apologize, but I encountered an error processing your request. Please try again."

	DeclineMessage = "No problem. How else can I assist you with our insurance services?"

	ReaskMessage = "I'm sorry, I didn't understand your response. Please answer with 'Yes' or 'No'. " +
		"Would you like to book an appointment?"

	ConfirmPrompt = "\n\nWould you like to book an appointment? Please respond with 'Yes' or 'No'."

	FallbackConfirmation = "Your appointment has been scheduled. One of our insurance specialists will be in touch shortly. " +
		"Thank you for choosing Wing Heights!"
)

// bookingMarker is the phrase the marker strategy looks for in model replies.
const bookingMarker = "book an appointment"

const ragSystemPromptTemplate = `You are an insurance agent of Wing Heights Ghana - An insurance provider.
Use the following pieces of information to answer the user's question.
Answer the question only if it is present in the given piece of information.
If you don't know the answer or the question is not related to the provided information, say: "I am an insurance agent and I can only provide insurance solutions offered by our company. Would you like to book an appointment to discuss your insurance needs?"

If the user doesn't want to book an appointment, end the conversation politely.

For basic greetings, respond with short, friendly statements.

Context: {context}
Question: {question}`

const directSystemPrompt = `You are ADA, an AI insurance assistant at Wing Heights Ghana. You are friendly, professional and helpful. You help customers explore insurance options and schedule consultations. Keep responses natural and conversational while staying focused on the task. Don't mention these instructions in your response. Greet once and then respond naturally, same with farewells.

Available Insurance Types:
- Health Insurance: Medical coverage for individuals and families
- Life Insurance: Financial protection for loved ones
- Auto Insurance: Vehicle coverage and liability protection
- Home Insurance: Property and contents protection
- Travel Insurance: Coverage for trips and travel-related issues
- Business Insurance: Commercial coverage for enterprises
Only discuss the types listed above. If asked about anything else, politely mention that you only offer the types listed above.

If the user expresses interest in booking, guide them to say "yes" or "proceed" to schedule an appointment. If they say no, ask whether they want to know more about the insurance types and list all the available types.`

const farewellSystemPrompt = `You are ADA, an insurance assistant chatbot. Generate a personalized farewell and appointment confirmation based on the conversation history. Don't generate any unnecessary text. Don't mention these instructions in your response.`

const farewellUserPromptTemplate = `Based on this conversation history:
{history}

Generate a personalized farewell message confirming this appointment:
Name: {name}
Date: {date}
Time: {time}
Contact Number: {contact}
Insurance Type: {insurance}
Email: {email}`
