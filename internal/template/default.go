package template

// HomeTemplate is the landing page shown before the wizard starts.
const HomeTemplate = `# Renew Your Bluebook Now!!

Fast, convenient bluebook renewal service. Our pickup team will collect your
bluebook and handle the renewal process for you.

| Quick Process | Expert Handling | Doorstep Pickup |
|---|---|---|
| Complete in 3 simple steps | Professional renewal service | We collect from your location |

## How It Works

Three simple steps to renew your bluebook from the comfort of your home.

1. **Personal Information**: enter your name and phone number
2. **Vehicle Details**: provide vehicle information and registration
3. **Pickup Details**: choose pickup address and preferred time

Ready to get started? Complete the process in just a few minutes!
`

// DefaultReceiptTemplate is the confirmation shown after a successful
// submission. See Render for the supported placeholders.
const DefaultReceiptTemplate = `# Request Submitted Successfully!

Thank you, {{name}}! Your bluebook will be collected by our pickup team soon.

| | |
|---|---|
| Reference | **{{reference}}** |
| Vehicle | {{vehicle}} ({{registration}}) |
| Pickup | {{pickup_date}}, {{time_slot}} |
| Address | {{pickup_address}} |

## What happens next?

1. **We'll call you**: our team will contact you on {{phone}} within 24 hours to confirm pickup details
2. **Schedule confirmation**: we'll confirm the pickup date and time slot you selected
3. **Document collection**: our pickup team will collect your bluebook and required documents
4. **Renewal process**: we'll handle the renewal process and return your updated bluebook

## Important Notes

- Please keep your original bluebook ready for pickup
- Have a copy of your citizenship or driving license available
- Renewal fee will be collected during pickup
- You'll receive a receipt for all documents collected

Need help? Contact us at **{{support_phone}}** or email **{{support_email}}**
`
